package chats

import (
	"strings"

	"github.com/harshsahu0030/chat-app-backend/internal/errors"
	"github.com/harshsahu0030/chat-app-backend/internal/global"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/middleware"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/rest"
)

type chatRoute struct {
	Ctx global.Context
}

func newChat(gCtx global.Context) rest.Route {
	return &chatRoute{gCtx}
}

func (r *chatRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:    "/{chat.id}",
		Method: rest.GET,
		Middleware: []rest.Middleware{
			middleware.Auth(r.Ctx),
		},
	}
}

func (r *chatRoute) Handler(ctx *rest.Ctx) rest.APIError {
	actor, ok := ctx.GetActor()
	if !ok {
		return errors.ErrUnauthorized()
	}

	chatID, err := ctx.UserValue("chat.id").ObjectID()
	if err != nil {
		return errors.From(err)
	}

	chat, qErr := r.Ctx.Inst().Query.ChatByID(ctx, chatID)
	if qErr != nil {
		return qErr
	}

	if !isMember(chat, *actor) {
		return errors.ErrInsufficientPrivilege().SetDetail("not a member of this chat")
	}

	return ctx.JSON(rest.OK, modelizeChat(r.Ctx, ctx, chat))
}

type renameRoute struct {
	Ctx global.Context
}

func newRename(gCtx global.Context) rest.Route {
	return &renameRoute{gCtx}
}

func (r *renameRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:    "/{chat.id}",
		Method: rest.PATCH,
		Middleware: []rest.Middleware{
			middleware.Auth(r.Ctx),
		},
	}
}

type renameBody struct {
	Name string `json:"name"`
}

// Rename a group chat. Admin only.
func (r *renameRoute) Handler(ctx *rest.Ctx) rest.APIError {
	actor, ok := ctx.GetActor()
	if !ok {
		return errors.ErrUnauthorized()
	}

	chatID, err := ctx.UserValue("chat.id").ObjectID()
	if err != nil {
		return errors.From(err)
	}

	body := renameBody{}
	if bErr := ctx.BindJSON(&body); bErr != nil {
		return bErr
	}

	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return errors.ErrEmptyField().SetFields(errors.Fields{"field": "name"})
	}

	chat, qErr := r.Ctx.Inst().Query.ChatByID(ctx, chatID)
	if qErr != nil {
		return qErr
	}

	if !chat.IsGroupChat {
		return errors.ErrValidationRejected().SetDetail("direct chats cannot be renamed")
	}

	if chat.Admin != actor.ID {
		return errors.ErrInsufficientPrivilege().SetDetail("only the group admin may rename it")
	}

	if mErr := r.Ctx.Inst().Mutate.RenameChat(ctx, chatID, body.Name); mErr != nil {
		return mErr
	}

	chat.GroupName = body.Name

	return ctx.JSON(rest.OK, modelizeChat(r.Ctx, ctx, chat))
}

type deleteRoute struct {
	Ctx global.Context
}

func newDelete(gCtx global.Context) rest.Route {
	return &deleteRoute{gCtx}
}

func (r *deleteRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:    "/{chat.id}",
		Method: rest.DELETE,
		Middleware: []rest.Middleware{
			middleware.Auth(r.Ctx),
		},
	}
}

// Delete a chat and all of its messages. Group chats may only be deleted
// by their admin; either side may delete a direct chat.
func (r *deleteRoute) Handler(ctx *rest.Ctx) rest.APIError {
	actor, ok := ctx.GetActor()
	if !ok {
		return errors.ErrUnauthorized()
	}

	chatID, err := ctx.UserValue("chat.id").ObjectID()
	if err != nil {
		return errors.From(err)
	}

	chat, qErr := r.Ctx.Inst().Query.ChatByID(ctx, chatID)
	if qErr != nil {
		return qErr
	}

	if !isMember(chat, *actor) {
		return errors.ErrInsufficientPrivilege().SetDetail("not a member of this chat")
	}

	if chat.IsGroupChat && chat.Admin != actor.ID {
		return errors.ErrInsufficientPrivilege().SetDetail("only the group admin may delete it")
	}

	if mErr := r.Ctx.Inst().Mutate.DeleteChat(ctx, chatID); mErr != nil {
		return mErr
	}

	return ctx.JSON(rest.OK, &deleteResponse{Deleted: true})
}

type deleteResponse struct {
	Deleted bool `json:"deleted"`
}
