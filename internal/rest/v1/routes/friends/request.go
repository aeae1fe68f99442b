package friends

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/harshsahu0030/chat-app-backend/data/model"
	"github.com/harshsahu0030/chat-app-backend/internal/errors"
	"github.com/harshsahu0030/chat-app-backend/internal/global"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/middleware"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/rest"
)

type requestRoute struct {
	Ctx global.Context
}

func newRequest(gCtx global.Context) rest.Route {
	return &requestRoute{gCtx}
}

func (r *requestRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:    "/{user.id}",
		Method: rest.POST,
		Middleware: []rest.Middleware{
			middleware.Auth(r.Ctx),
		},
	}
}

// Send a friend request
func (r *requestRoute) Handler(ctx *rest.Ctx) rest.APIError {
	actor, ok := ctx.GetActor()
	if !ok {
		return errors.ErrUnauthorized()
	}

	peerID, err := ctx.UserValue("user.id").ObjectID()
	if err != nil {
		return errors.From(err)
	}

	if peerID == actor.ID {
		return errors.ErrValidationRejected().SetDetail("cannot befriend yourself")
	}

	peer, qErr := r.Ctx.Inst().Query.UserByID(ctx, peerID)
	if qErr != nil {
		return qErr
	}

	if _, qErr = r.Ctx.Inst().Query.FriendRelation(ctx, actor.ID, peer.ID); qErr == nil {
		return errors.ErrAlreadyExists().SetDetail("a friend relation already exists")
	}

	rel := model.Friend{
		Requester: actor.ID,
		Recipient: peer.ID,
	}

	if mErr := r.Ctx.Inst().Mutate.CreateFriendRequest(ctx, &rel); mErr != nil {
		return mErr
	}

	users := map[string]model.User{
		actor.ID.Hex(): *actor,
		peer.ID.Hex():  peer,
	}

	return ctx.JSON(rest.Created, r.Ctx.Inst().Modelizer.Friend(rel, users))
}

type acceptRoute struct {
	Ctx global.Context
}

func newAccept(gCtx global.Context) rest.Route {
	return &acceptRoute{gCtx}
}

func (r *acceptRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:    "/{user.id}/accept",
		Method: rest.PUT,
		Middleware: []rest.Middleware{
			middleware.Auth(r.Ctx),
		},
	}
}

// Accept a pending request from the named user. Acceptance also opens a
// direct chat between the pair when one does not already exist.
func (r *acceptRoute) Handler(ctx *rest.Ctx) rest.APIError {
	actor, ok := ctx.GetActor()
	if !ok {
		return errors.ErrUnauthorized()
	}

	peerID, err := ctx.UserValue("user.id").ObjectID()
	if err != nil {
		return errors.From(err)
	}

	rel, qErr := r.Ctx.Inst().Query.FriendRelation(ctx, actor.ID, peerID)
	if qErr != nil {
		return qErr
	}

	if mErr := r.Ctx.Inst().Mutate.AcceptFriendRequest(ctx, rel.ID, actor.ID); mErr != nil {
		return mErr
	}

	rel.Status = model.FriendStatusAccepted

	if _, qErr = r.Ctx.Inst().Query.DirectChatBetween(ctx, actor.ID, peerID); qErr != nil {
		chat := model.Chat{
			CreatedBy: actor.ID,
			Members:   []primitive.ObjectID{actor.ID, peerID},
			CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
			UpdatedAt: primitive.NewDateTimeFromTime(time.Now()),
		}

		if mErr := r.Ctx.Inst().Mutate.CreateChat(ctx, &chat); mErr != nil {
			zap.S().Errorw("friends, failed to open direct chat on accept",
				"requester", rel.Requester.Hex(),
				"recipient", rel.Recipient.Hex(),
				"error", mErr,
			)
		}
	}

	return ctx.JSON(rest.OK, modelizeRelations(r.Ctx, ctx, []model.Friend{rel})[0])
}

type removeRoute struct {
	Ctx global.Context
}

func newRemove(gCtx global.Context) rest.Route {
	return &removeRoute{gCtx}
}

func (r *removeRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:    "/{user.id}",
		Method: rest.DELETE,
		Middleware: []rest.Middleware{
			middleware.Auth(r.Ctx),
		},
	}
}

// Remove a friend, or withdraw or decline a pending request
func (r *removeRoute) Handler(ctx *rest.Ctx) rest.APIError {
	actor, ok := ctx.GetActor()
	if !ok {
		return errors.ErrUnauthorized()
	}

	peerID, err := ctx.UserValue("user.id").ObjectID()
	if err != nil {
		return errors.From(err)
	}

	if mErr := r.Ctx.Inst().Mutate.RemoveFriend(ctx, actor.ID, peerID); mErr != nil {
		return mErr
	}

	return ctx.JSON(rest.OK, &removeResponse{Removed: true})
}

type removeResponse struct {
	Removed bool `json:"removed"`
}
