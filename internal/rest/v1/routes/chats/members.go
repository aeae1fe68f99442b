package chats

import (
	"github.com/harshsahu0030/chat-app-backend/internal/errors"
	"github.com/harshsahu0030/chat-app-backend/internal/global"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/middleware"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/rest"
)

type addMemberRoute struct {
	Ctx global.Context
}

func newAddMember(gCtx global.Context) rest.Route {
	return &addMemberRoute{gCtx}
}

func (r *addMemberRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:    "/{chat.id}/members/{user.id}",
		Method: rest.PUT,
		Middleware: []rest.Middleware{
			middleware.Auth(r.Ctx),
		},
	}
}

// Add a member to a group chat. Admin only.
func (r *addMemberRoute) Handler(ctx *rest.Ctx) rest.APIError {
	actor, ok := ctx.GetActor()
	if !ok {
		return errors.ErrUnauthorized()
	}

	chatID, err := ctx.UserValue("chat.id").ObjectID()
	if err != nil {
		return errors.From(err)
	}

	userID, err := ctx.UserValue("user.id").ObjectID()
	if err != nil {
		return errors.From(err)
	}

	chat, qErr := r.Ctx.Inst().Query.ChatByID(ctx, chatID)
	if qErr != nil {
		return qErr
	}

	if !chat.IsGroupChat {
		return errors.ErrValidationRejected().SetDetail("members cannot be added to a direct chat")
	}

	if chat.Admin != actor.ID {
		return errors.ErrInsufficientPrivilege().SetDetail("only the group admin may add members")
	}

	if _, qErr = r.Ctx.Inst().Query.UserByID(ctx, userID); qErr != nil {
		return qErr
	}

	if mErr := r.Ctx.Inst().Mutate.AddChatMember(ctx, chatID, userID); mErr != nil {
		return mErr
	}

	chat, qErr = r.Ctx.Inst().Query.ChatByID(ctx, chatID)
	if qErr != nil {
		return qErr
	}

	return ctx.JSON(rest.OK, modelizeChat(r.Ctx, ctx, chat))
}

type removeMemberRoute struct {
	Ctx global.Context
}

func newRemoveMember(gCtx global.Context) rest.Route {
	return &removeMemberRoute{gCtx}
}

func (r *removeMemberRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:    "/{chat.id}/members/{user.id}",
		Method: rest.DELETE,
		Middleware: []rest.Middleware{
			middleware.Auth(r.Ctx),
		},
	}
}

// Remove a member from a group chat. The admin may remove anyone; every
// member may remove themselves to leave.
func (r *removeMemberRoute) Handler(ctx *rest.Ctx) rest.APIError {
	actor, ok := ctx.GetActor()
	if !ok {
		return errors.ErrUnauthorized()
	}

	chatID, err := ctx.UserValue("chat.id").ObjectID()
	if err != nil {
		return errors.From(err)
	}

	userID, err := ctx.UserValue("user.id").ObjectID()
	if err != nil {
		return errors.From(err)
	}

	chat, qErr := r.Ctx.Inst().Query.ChatByID(ctx, chatID)
	if qErr != nil {
		return qErr
	}

	if !chat.IsGroupChat {
		return errors.ErrValidationRejected().SetDetail("members cannot be removed from a direct chat")
	}

	if chat.Admin != actor.ID && userID != actor.ID {
		return errors.ErrInsufficientPrivilege().SetDetail("only the group admin may remove other members")
	}

	if chat.Admin == userID {
		return errors.ErrValidationRejected().SetDetail("the group admin cannot be removed")
	}

	if mErr := r.Ctx.Inst().Mutate.RemoveChatMember(ctx, chatID, userID); mErr != nil {
		return mErr
	}

	chat, qErr = r.Ctx.Inst().Query.ChatByID(ctx, chatID)
	if qErr != nil {
		return qErr
	}

	return ctx.JSON(rest.OK, modelizeChat(r.Ctx, ctx, chat))
}
