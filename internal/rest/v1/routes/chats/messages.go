package chats

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshsahu0030/chat-app-backend/data/model"
	"github.com/harshsahu0030/chat-app-backend/data/query"
	"github.com/harshsahu0030/chat-app-backend/internal/errors"
	"github.com/harshsahu0030/chat-app-backend/internal/global"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/middleware"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/rest"
)

type messagesRoute struct {
	Ctx global.Context
}

func newMessages(gCtx global.Context) rest.Route {
	return &messagesRoute{gCtx}
}

func (r *messagesRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:    "/{chat.id}/messages",
		Method: rest.GET,
		Middleware: []rest.Middleware{
			middleware.Auth(r.Ctx),
		},
	}
}

// List a chat's messages, newest first
func (r *messagesRoute) Handler(ctx *rest.Ctx) rest.APIError {
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

	page, pErr := ctx.QueryValue("page").Int()
	if pErr != nil || page < 1 {
		page = 1
	}

	limits := r.Ctx.Config().Limits
	if page > limits.MaxPage {
		page = limits.MaxPage
	}

	messages, total, qErr := r.Ctx.Inst().Query.MessagesInChat(ctx, chatID, query.MessagesInChatOptions{
		Page:  page,
		Limit: limits.ResultsPerPage,
	})
	if qErr != nil {
		return qErr
	}

	senderIDs := make([]primitive.ObjectID, 0, len(messages))

	seen := map[primitive.ObjectID]bool{}
	for _, msg := range messages {
		if !seen[msg.Sender] {
			seen[msg.Sender] = true

			senderIDs = append(senderIDs, msg.Sender)
		}
	}

	senders := map[primitive.ObjectID]model.User{}

	if users, uErr := r.Ctx.Inst().Query.ManyUsers(ctx, senderIDs); uErr == nil {
		for _, u := range users {
			senders[u.ID] = u
		}
	}

	result := make([]model.MessageModel, len(messages))
	for i, msg := range messages {
		result[i] = r.Ctx.Inst().Modelizer.Message(msg, senders[msg.Sender])
	}

	return ctx.JSON(rest.OK, &messagesResponse{
		Total:    total,
		Page:     page,
		Messages: result,
	})
}

type messagesResponse struct {
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	Messages []model.MessageModel `json:"messages"`
}

type sendMessageRoute struct {
	Ctx global.Context
}

func newSendMessage(gCtx global.Context) rest.Route {
	return &sendMessageRoute{gCtx}
}

func (r *sendMessageRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:    "/{chat.id}/messages",
		Method: rest.POST,
		Middleware: []rest.Middleware{
			middleware.Auth(r.Ctx),
		},
	}
}

type sendMessageBody struct {
	Content string `json:"content"`
}

// Send a message. Persistence and member fan-out are handled by the
// delivery coordinator.
func (r *sendMessageRoute) Handler(ctx *rest.Ctx) rest.APIError {
	actor, ok := ctx.GetActor()
	if !ok {
		return errors.ErrUnauthorized()
	}

	chatID, err := ctx.UserValue("chat.id").ObjectID()
	if err != nil {
		return errors.From(err)
	}

	body := sendMessageBody{}
	if bErr := ctx.BindJSON(&body); bErr != nil {
		return bErr
	}

	msg, dErr := r.Ctx.Inst().Delivery.NewMessage(ctx, *actor, chatID, body.Content)
	if dErr != nil {
		return dErr
	}

	return ctx.JSON(rest.Created, msg)
}
