package mutate

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshsahu0030/chat-app-backend/data/model"
	"github.com/harshsahu0030/chat-app-backend/internal/errors"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/mongo"
)

// CreateMessage durably records a message and moves the chat's lastMessage
// pointer. The caller must not emit any realtime event unless this returns
// nil.
func (m *Mutate) CreateMessage(ctx context.Context, msg *model.Message) errors.APIError {
	msg.ID = primitive.NewObjectID()
	msg.CreatedAt = primitive.NewDateTimeFromTime(time.Now())

	_, err := m.mongo.Collection(mongo.CollectionNameMessages).InsertOne(ctx, msg)
	if err != nil {
		return errors.ErrPersistenceFailure().SetDetail(err.Error())
	}

	if err := m.SetLastMessage(ctx, msg.Chat, msg.ID); err != nil {
		return err
	}

	if m.prom != nil {
		m.prom.MessagesCreated().Inc()
	}

	return nil
}
