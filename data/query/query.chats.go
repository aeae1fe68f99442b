package query

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harshsahu0030/chat-app-backend/data/model"
	"github.com/harshsahu0030/chat-app-backend/internal/errors"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/mongo"
)

func (q *Query) ChatByID(ctx context.Context, id primitive.ObjectID) (model.Chat, errors.APIError) {
	var chat model.Chat

	err := q.mongo.Collection(mongo.CollectionNameChats).FindOne(ctx, bson.M{"_id": id}).Decode(&chat)
	if err != nil {
		if err == mongodrv.ErrNoDocuments {
			return chat, errors.ErrUnknownChat()
		}

		return chat, errors.ErrInternalServerError().SetDetail(err.Error())
	}

	return chat, nil
}

// ChatMembers returns the member identity list of a chat, fetched fresh on
// every call so dispatch always reflects current membership.
func (q *Query) ChatMembers(ctx context.Context, chatID primitive.ObjectID) ([]primitive.ObjectID, errors.APIError) {
	chat, err := q.ChatByID(ctx, chatID)
	if err != nil {
		return nil, err
	}

	return chat.Members, nil
}

// DirectChatBetween finds the non-group chat both users are members of.
func (q *Query) DirectChatBetween(ctx context.Context, a primitive.ObjectID, b primitive.ObjectID) (model.Chat, errors.APIError) {
	var chat model.Chat

	err := q.mongo.Collection(mongo.CollectionNameChats).FindOne(ctx, bson.M{
		"is_group_chat": false,
		"members":       bson.M{"$all": bson.A{a, b}},
	}).Decode(&chat)
	if err != nil {
		if err == mongodrv.ErrNoDocuments {
			return chat, errors.ErrUnknownChat()
		}

		return chat, errors.ErrInternalServerError().SetDetail(err.Error())
	}

	return chat, nil
}

type ChatsForUserOptions struct {
	GroupOnly bool
	Keyword   string
	Page      int
	Limit     int
}

func (q *Query) ChatsForUser(ctx context.Context, userID primitive.ObjectID, opt ChatsForUserOptions) ([]model.Chat, int64, errors.APIError) {
	filter := bson.M{"members": userID}

	if opt.GroupOnly {
		filter["is_group_chat"] = true

		if opt.Keyword != "" {
			filter["group_name"] = primitive.Regex{Pattern: regexp.QuoteMeta(opt.Keyword), Options: "i"}
		}
	}

	col := q.mongo.Collection(mongo.CollectionNameChats)

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
		SetSort(bson.M{"updated_at": -1}).
		SetSkip((page-1)*limit).
		SetLimit(limit),
	)
	if err != nil {
		return nil, 0, errors.ErrInternalServerError().SetDetail(err.Error())
	}

	chats := []model.Chat{}
	if err = cur.All(ctx, &chats); err != nil {
		return nil, 0, errors.ErrInternalServerError().SetDetail(err.Error())
	}

	return chats, total, nil
}
