package friends

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshsahu0030/chat-app-backend/data/model"
	"github.com/harshsahu0030/chat-app-backend/internal/errors"
	"github.com/harshsahu0030/chat-app-backend/internal/global"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/middleware"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/rest"
)

type requestsRoute struct {
	Ctx global.Context
}

func newRequests(gCtx global.Context) rest.Route {
	return &requestsRoute{gCtx}
}

func (r *requestsRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:    "/requests",
		Method: rest.GET,
		Middleware: []rest.Middleware{
			middleware.Auth(r.Ctx),
		},
	}
}

// List pending requests awaiting the actor's acceptance
func (r *requestsRoute) Handler(ctx *rest.Ctx) rest.APIError {
	actor, ok := ctx.GetActor()
	if !ok {
		return errors.ErrUnauthorized()
	}

	relations, err := r.Ctx.Inst().Query.PendingRequestsFor(ctx, actor.ID)
	if err != nil {
		return err
	}

	return ctx.JSON(rest.OK, modelizeRelations(r.Ctx, ctx, relations))
}

func modelizeRelations(gCtx global.Context, ctx *rest.Ctx, relations []model.Friend) []model.FriendModel {
	ids := make([]primitive.ObjectID, 0, len(relations)*2)

	seen := map[primitive.ObjectID]bool{}
	for _, rel := range relations {
		for _, id := range []primitive.ObjectID{rel.Requester, rel.Recipient} {
			if !seen[id] {
				seen[id] = true

				ids = append(ids, id)
			}
		}
	}

	users := map[string]model.User{}

	if resolved, err := gCtx.Inst().Query.ManyUsers(ctx, ids); err == nil {
		for _, u := range resolved {
			users[u.ID.Hex()] = u
		}
	}

	result := make([]model.FriendModel, len(relations))
	for i, rel := range relations {
		result[i] = gCtx.Inst().Modelizer.Friend(rel, users)
	}

	return result
}
