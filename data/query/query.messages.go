package query

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harshsahu0030/chat-app-backend/data/model"
	"github.com/harshsahu0030/chat-app-backend/internal/errors"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/mongo"
)

func (q *Query) MessageByID(ctx context.Context, id primitive.ObjectID) (model.Message, errors.APIError) {
	var msg model.Message

	err := q.mongo.Collection(mongo.CollectionNameMessages).FindOne(ctx, bson.M{"_id": id}).Decode(&msg)
	if err != nil {
		if err == mongodrv.ErrNoDocuments {
			return msg, errors.ErrUnknownMessage()
		}

		return msg, errors.ErrInternalServerError().SetDetail(err.Error())
	}

	return msg, nil
}

type MessagesInChatOptions struct {
	Page  int
	Limit int
}

// MessagesInChat returns a page of messages, newest first.
func (q *Query) MessagesInChat(ctx context.Context, chatID primitive.ObjectID, opt MessagesInChatOptions) ([]model.Message, int64, errors.APIError) {
	filter := bson.M{"chat": chatID}

	col := q.mongo.Collection(mongo.CollectionNameMessages)

	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, errors.ErrInternalServerError().SetDetail(err.Error())
	}

	limit := int64(opt.Limit)
	if limit <= 0 {
		limit = 20
	}

	page := int64(opt.Page)
	if page < 1 {
		page = 1
	}

	cur, err := col.Find(ctx, filter, options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip((page-1)*limit).
		SetLimit(limit),
	)
	if err != nil {
		return nil, 0, errors.ErrInternalServerError().SetDetail(err.Error())
	}

	messages := []model.Message{}
	if err = cur.All(ctx, &messages); err != nil {
		return nil, 0, errors.ErrInternalServerError().SetDetail(err.Error())
	}

	return messages, total, nil
}
