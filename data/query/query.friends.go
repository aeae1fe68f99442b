package query

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodrv "go.mongodb.org/mongo-driver/mongo"

	"github.com/harshsahu0030/chat-app-backend/data/model"
	"github.com/harshsahu0030/chat-app-backend/internal/errors"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/mongo"
)

// FriendRelation finds the relation between two users regardless of which
// side initiated it.
func (q *Query) FriendRelation(ctx context.Context, a primitive.ObjectID, b primitive.ObjectID) (model.Friend, errors.APIError) {
	var rel model.Friend

	err := q.mongo.Collection(mongo.CollectionNameFriends).FindOne(ctx, bson.M{
		"$or": bson.A{
			bson.M{"requester": a, "recipient": b},
			bson.M{"requester": b, "recipient": a},
		},
	}).Decode(&rel)
	if err != nil {
		if err == mongodrv.ErrNoDocuments {
			return rel, errors.ErrUnknownFriend()
		}

		return rel, errors.ErrInternalServerError().SetDetail(err.Error())
	}

	return rel, nil
}

func (q *Query) FriendsOf(ctx context.Context, userID primitive.ObjectID, status model.FriendStatus) ([]model.Friend, errors.APIError) {
	filter := bson.M{
		"$or": bson.A{
			bson.M{"requester": userID},
			bson.M{"recipient": userID},
		},
	}

	if status != "" {
		filter["status"] = status
	}

	cur, err := q.mongo.Collection(mongo.CollectionNameFriends).Find(ctx, filter)
	if err != nil {
		return nil, errors.ErrInternalServerError().SetDetail(err.Error())
	}

	relations := []model.Friend{}
	if err = cur.All(ctx, &relations); err != nil {
		return nil, errors.ErrInternalServerError().SetDetail(err.Error())
	}

	return relations, nil
}

// PendingRequestsFor returns relations awaiting the given user's acceptance.
func (q *Query) PendingRequestsFor(ctx context.Context, userID primitive.ObjectID) ([]model.Friend, errors.APIError) {
	cur, err := q.mongo.Collection(mongo.CollectionNameFriends).Find(ctx, bson.M{
		"recipient": userID,
		"status":    model.FriendStatusPending,
	})
	if err != nil {
		return nil, errors.ErrInternalServerError().SetDetail(err.Error())
	}

	relations := []model.Friend{}
	if err = cur.All(ctx, &relations); err != nil {
		return nil, errors.ErrInternalServerError().SetDetail(err.Error())
	}

	return relations, nil
}
