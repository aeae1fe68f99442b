package mutate

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshsahu0030/chat-app-backend/data/model"
	"github.com/harshsahu0030/chat-app-backend/internal/errors"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/mongo"
)

func (m *Mutate) CreateChat(ctx context.Context, chat *model.Chat) errors.APIError {
	now := primitive.NewDateTimeFromTime(time.Now())
	chat.ID = primitive.NewObjectID()
	chat.CreatedAt = now
	chat.UpdatedAt = now

	_, err := m.mongo.Collection(mongo.CollectionNameChats).InsertOne(ctx, chat)
	if err != nil {
		return errors.ErrPersistenceFailure().SetDetail(err.Error())
	}

	return nil
}

func (m *Mutate) RenameChat(ctx context.Context, chatID primitive.ObjectID, name string) errors.APIError {
	return m.updateChat(ctx, chatID, bson.M{"$set": bson.M{"group_name": name}})
}

func (m *Mutate) AddChatMember(ctx context.Context, chatID primitive.ObjectID, userID primitive.ObjectID) errors.APIError {
	return m.updateChat(ctx, chatID, bson.M{"$addToSet": bson.M{"members": userID}})
}

func (m *Mutate) RemoveChatMember(ctx context.Context, chatID primitive.ObjectID, userID primitive.ObjectID) errors.APIError {
	return m.updateChat(ctx, chatID, bson.M{"$pull": bson.M{"members": userID}})
}

// SetLastMessage moves the chat's lastMessage pointer and refreshes its
// recency for chat-list ordering.
func (m *Mutate) SetLastMessage(ctx context.Context, chatID primitive.ObjectID, messageID primitive.ObjectID) errors.APIError {
	return m.updateChat(ctx, chatID, bson.M{"$set": bson.M{"last_message": messageID}})
}

func (m *Mutate) DeleteChat(ctx context.Context, chatID primitive.ObjectID) errors.APIError {
	_, err := m.mongo.Collection(mongo.CollectionNameMessages).DeleteMany(ctx, bson.M{"chat": chatID})
	if err != nil {
		return errors.ErrPersistenceFailure().SetDetail(err.Error())
	}

	res, err := m.mongo.Collection(mongo.CollectionNameChats).DeleteOne(ctx, bson.M{"_id": chatID})
	if err != nil {
		return errors.ErrPersistenceFailure().SetDetail(err.Error())
	}

	if res.DeletedCount == 0 {
		return errors.ErrUnknownChat()
	}

	return nil
}

func (m *Mutate) updateChat(ctx context.Context, chatID primitive.ObjectID, update bson.M) errors.APIError {
	set, _ := update["$set"].(bson.M)
	if set == nil {
		set = bson.M{}
		update["$set"] = set
	}

	set["updated_at"] = primitive.NewDateTimeFromTime(time.Now())

	res, err := m.mongo.Collection(mongo.CollectionNameChats).UpdateOne(ctx, bson.M{"_id": chatID}, update)
	if err != nil {
		return errors.ErrPersistenceFailure().SetDetail(err.Error())
	}

	if res.MatchedCount == 0 {
		return errors.ErrUnknownChat()
	}

	return nil
}
