package delivery

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/harshsahu0030/chat-app-backend/data/events"
	"github.com/harshsahu0030/chat-app-backend/data/model"
	"github.com/harshsahu0030/chat-app-backend/internal/errors"
	eventsvc "github.com/harshsahu0030/chat-app-backend/internal/svc/events"
)

type Instance interface {
	// NewMessage persists the message, then notifies every chat member over
	// their live connections. Nothing is emitted when persistence fails.
	NewMessage(ctx context.Context, sender model.User, chatID primitive.ObjectID, content string) (model.MessageModel, errors.APIError)
}

// ChatSource is the read surface the coordinator needs. The member list is
// always fetched fresh here so a membership change between persist and
// fan-out is honored.
type ChatSource interface {
	ChatByID(ctx context.Context, id primitive.ObjectID) (model.Chat, errors.APIError)
	ChatMembers(ctx context.Context, chatID primitive.ObjectID) ([]primitive.ObjectID, errors.APIError)
	ManyUsers(ctx context.Context, ids []primitive.ObjectID) ([]model.User, errors.APIError)
}

type MessageStore interface {
	CreateMessage(ctx context.Context, msg *model.Message) errors.APIError
}

type coordinator struct {
	events    eventsvc.Instance
	query     ChatSource
	mutate    MessageStore
	modelizer model.Modelizer
}

type Options struct {
	Events    eventsvc.Instance
	Query     ChatSource
	Mutate    MessageStore
	Modelizer model.Modelizer
}

func New(opt Options) Instance {
	return &coordinator{
		events:    opt.Events,
		query:     opt.Query,
		mutate:    opt.Mutate,
		modelizer: opt.Modelizer,
	}
}

func (c *coordinator) NewMessage(ctx context.Context, sender model.User, chatID primitive.ObjectID, content string) (model.MessageModel, errors.APIError) {
	var empty model.MessageModel

	if content == "" {
		return empty, errors.ErrEmptyField().SetFields(errors.Fields{"field": "content"})
	}

	chat, err := c.query.ChatByID(ctx, chatID)
	if err != nil {
		return empty, err
	}

	if !isMember(chat.Members, sender.ID) {
		return empty, errors.ErrInsufficientPrivilege().SetDetail("not a member of this chat")
	}

	msg := model.Message{
		Content:   content,
		Sender:    sender.ID,
		Chat:      chat.ID,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}

	if err = c.mutate.CreateMessage(ctx, &msg); err != nil {
		return empty, err
	}

	// Re-read the member list after the write rather than trusting the
	// snapshot used for the membership check.
	members, err := c.query.ChatMembers(ctx, chat.ID)
	if err != nil {
		zap.S().Warnw("delivery, member refetch failed, using prior snapshot",
			"chat_id", chat.ID.Hex(),
			"error", err,
		)

		members = chat.Members
	}

	users, err := c.query.ManyUsers(ctx, members)
	if err != nil {
		users = []model.User{sender}
	}

	chat.LastMessage = msg.ID
	chatModel := c.modelizer.Chat(chat, users, &msg)
	msgModel := c.modelizer.Message(msg, sender)

	c.events.Dispatch(members, events.NewMessageAlert(chatModel))
	c.events.Dispatch(members, events.NewMessage(chat.ID, msgModel))

	return msgModel, nil
}

func isMember(members []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, m := range members {
		if m == id {
			return true
		}
	}

	return false
}
