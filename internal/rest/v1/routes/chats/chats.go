package chats

import (
	"strings"

	"github.com/harshsahu0030/chat-app-backend/data/model"
	"github.com/harshsahu0030/chat-app-backend/data/query"
	"github.com/harshsahu0030/chat-app-backend/internal/errors"
	"github.com/harshsahu0030/chat-app-backend/internal/global"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/middleware"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/rest"
)

type Route struct {
	Ctx global.Context
}

func New(gCtx global.Context) rest.Route {
	return &Route{gCtx}
}

func (r *Route) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:    "/chats",
		Method: rest.GET,
		Children: []rest.Route{
			newCreateGroup(r.Ctx),
			newChat(r.Ctx),
			newRename(r.Ctx),
			newDelete(r.Ctx),
			newAddMember(r.Ctx),
			newRemoveMember(r.Ctx),
			newMessages(r.Ctx),
			newSendMessage(r.Ctx),
		},
		Middleware: []rest.Middleware{
			middleware.Auth(r.Ctx),
		},
	}
}

// List the actor's chats, most recently active first
func (r *Route) Handler(ctx *rest.Ctx) rest.APIError {
	actor, ok := ctx.GetActor()
	if !ok {
		return errors.ErrUnauthorized()
	}

	keyword, _ := ctx.QueryValue("q").String()

	page, err := ctx.QueryValue("page").Int()
	if err != nil || page < 1 {
		page = 1
	}

	limits := r.Ctx.Config().Limits
	if page > limits.MaxPage {
		page = limits.MaxPage
	}

	chats, total, qErr := r.Ctx.Inst().Query.ChatsForUser(ctx, actor.ID, query.ChatsForUserOptions{
		GroupOnly: ctx.QueryValue("groups").Bool(),
		Keyword:   strings.TrimSpace(keyword),
		Page:      page,
		Limit:     limits.ResultsPerPage,
	})
	if qErr != nil {
		return qErr
	}

	result := make([]model.ChatModel, len(chats))
	for i, chat := range chats {
		result[i] = modelizeChat(r.Ctx, ctx, chat)
	}

	return ctx.JSON(rest.OK, &listResponse{
		Total: total,
		Page:  page,
		Chats: result,
	})
}

type listResponse struct {
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Chats []model.ChatModel `json:"chats"`
}

func modelizeChat(gCtx global.Context, ctx *rest.Ctx, chat model.Chat) model.ChatModel {
	members, err := gCtx.Inst().Query.ManyUsers(ctx, chat.Members)
	if err != nil {
		members = []model.User{}
	}

	var lastMessage *model.Message

	if !chat.LastMessage.IsZero() {
		if msg, err := gCtx.Inst().Query.MessageByID(ctx, chat.LastMessage); err == nil {
			lastMessage = &msg
		}
	}

	return gCtx.Inst().Modelizer.Chat(chat, members, lastMessage)
}

func isMember(chat model.Chat, user model.User) bool {
	for _, m := range chat.Members {
		if m == user.ID {
			return true
		}
	}

	return false
}
