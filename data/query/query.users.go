package query

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harshsahu0030/chat-app-backend/data/model"
	"github.com/harshsahu0030/chat-app-backend/internal/errors"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/mongo"
)

func (q *Query) UserByID(ctx context.Context, id primitive.ObjectID) (model.User, errors.APIError) {
	var user model.User

	k := q.key("user:" + id.Hex())
	if q.getFromMemCache(ctx, k, &user) {
		return user, nil
	}

	err := q.mongo.Collection(mongo.CollectionNameUsers).FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongodrv.ErrNoDocuments {
			return user, errors.ErrUnknownUser()
		}

		return user, errors.ErrInternalServerError().SetDetail(err.Error())
	}

	_ = q.setInMemCache(ctx, k, user, time.Second*30)

	return user, nil
}

func (q *Query) UserByEmail(ctx context.Context, email string) (model.User, errors.APIError) {
	var user model.User

	err := q.mongo.Collection(mongo.CollectionNameUsers).FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongodrv.ErrNoDocuments {
			return user, errors.ErrUnknownUser()
		}

		return user, errors.ErrInternalServerError().SetDetail(err.Error())
	}

	return user, nil
}

func (q *Query) ManyUsers(ctx context.Context, ids []primitive.ObjectID) ([]model.User, errors.APIError) {
	if len(ids) == 0 {
		return []model.User{}, nil
	}

	cur, err := q.mongo.Collection(mongo.CollectionNameUsers).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, errors.ErrInternalServerError().SetDetail(err.Error())
	}

	users := []model.User{}
	if err = cur.All(ctx, &users); err != nil {
		return nil, errors.ErrInternalServerError().SetDetail(err.Error())
	}

	return users, nil
}

type SearchUsersOptions struct {
	Keyword string
	Exclude []primitive.ObjectID
	Page    int
	Limit   int
}

func (q *Query) SearchUsers(ctx context.Context, opt SearchUsersOptions) ([]model.User, int64, errors.APIError) {
	filter := bson.M{}

	if opt.Keyword != "" {
		rgx := primitive.Regex{Pattern: regexp.QuoteMeta(opt.Keyword), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"username": rgx},
			bson.M{"name": rgx},
		}
	}

	if len(opt.Exclude) > 0 {
		filter["_id"] = bson.M{"$nin": opt.Exclude}
	}

	col := q.mongo.Collection(mongo.CollectionNameUsers)

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
		SetSort(bson.M{"username": 1}).
		SetSkip((page-1)*limit).
		SetLimit(limit),
	)
	if err != nil {
		return nil, 0, errors.ErrInternalServerError().SetDetail(err.Error())
	}

	users := []model.User{}
	if err = cur.All(ctx, &users); err != nil {
		return nil, 0, errors.ErrInternalServerError().SetDetail(err.Error())
	}

	return users, total, nil
}
