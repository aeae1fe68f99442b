package mutate

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodrv "go.mongodb.org/mongo-driver/mongo"

	"github.com/harshsahu0030/chat-app-backend/data/model"
	"github.com/harshsahu0030/chat-app-backend/internal/errors"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/mongo"
)

func (m *Mutate) CreateFriendRequest(ctx context.Context, rel *model.Friend) errors.APIError {
	rel.ID = primitive.NewObjectID()
	rel.Status = model.FriendStatusPending
	rel.CreatedAt = primitive.NewDateTimeFromTime(time.Now())

	_, err := m.mongo.Collection(mongo.CollectionNameFriends).InsertOne(ctx, rel)
	if err != nil {
		if mongodrv.IsDuplicateKeyError(err) {
			return errors.ErrAlreadyExists().SetDetail("a friend relation already exists")
		}

		return errors.ErrPersistenceFailure().SetDetail(err.Error())
	}

	return nil
}

// AcceptFriendRequest flips a pending relation to accepted. Only the
// recipient side may accept.
func (m *Mutate) AcceptFriendRequest(ctx context.Context, relID primitive.ObjectID, recipient primitive.ObjectID) errors.APIError {
	res, err := m.mongo.Collection(mongo.CollectionNameFriends).UpdateOne(ctx,
		bson.M{"_id": relID, "recipient": recipient, "status": model.FriendStatusPending},
		bson.M{"$set": bson.M{"status": model.FriendStatusAccepted}},
	)
	if err != nil {
		return errors.ErrPersistenceFailure().SetDetail(err.Error())
	}

	if res.MatchedCount == 0 {
		return errors.ErrUnknownFriend()
	}

	return nil
}

func (m *Mutate) RemoveFriend(ctx context.Context, a primitive.ObjectID, b primitive.ObjectID) errors.APIError {
	res, err := m.mongo.Collection(mongo.CollectionNameFriends).DeleteOne(ctx, bson.M{
		"$or": bson.A{
			bson.M{"requester": a, "recipient": b},
			bson.M{"requester": b, "recipient": a},
		},
	})
	if err != nil {
		return errors.ErrPersistenceFailure().SetDetail(err.Error())
	}

	if res.DeletedCount == 0 {
		return errors.ErrUnknownFriend()
	}

	return nil
}
