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

func (m *Mutate) CreateUser(ctx context.Context, user *model.User) errors.APIError {
	now := primitive.NewDateTimeFromTime(time.Now())
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := m.mongo.Collection(mongo.CollectionNameUsers).InsertOne(ctx, user)
	if err != nil {
		if mongodrv.IsDuplicateKeyError(err) {
			return errors.ErrAlreadyExists().SetDetail("a user with this email or username already exists")
		}

		return errors.ErrPersistenceFailure().SetDetail(err.Error())
	}

	return nil
}

func (m *Mutate) SetUserVerified(ctx context.Context, userID primitive.ObjectID) errors.APIError {
	return m.updateUser(ctx, userID, bson.M{"verified": true})
}

type UpdateUserProfileOptions struct {
	Name     string
	Username string
}

func (m *Mutate) UpdateUserProfile(ctx context.Context, userID primitive.ObjectID, opt UpdateUserProfileOptions) errors.APIError {
	update := bson.M{}

	if opt.Name != "" {
		update["name"] = opt.Name
	}

	if opt.Username != "" {
		update["username"] = opt.Username
	}

	if len(update) == 0 {
		return errors.ErrEmptyField().SetDetail("nothing to update")
	}

	return m.updateUser(ctx, userID, update)
}

func (m *Mutate) SetUserAvatar(ctx context.Context, userID primitive.ObjectID, avatar model.UserAvatar) errors.APIError {
	return m.updateUser(ctx, userID, bson.M{"avatar": avatar})
}

// SetUserPassword stores a new password hash and bumps the token version,
// invalidating every previously issued access token.
func (m *Mutate) SetUserPassword(ctx context.Context, userID primitive.ObjectID, hash string) errors.APIError {
	res, err := m.mongo.Collection(mongo.CollectionNameUsers).UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$set": bson.M{
				"password":   hash,
				"updated_at": primitive.NewDateTimeFromTime(time.Now()),
			},
			"$inc": bson.M{"token_version": 1},
		},
	)
	if err != nil {
		return errors.ErrPersistenceFailure().SetDetail(err.Error())
	}

	if res.MatchedCount == 0 {
		return errors.ErrUnknownUser()
	}

	// Revocation must be visible immediately, not after the cache TTL
	m.invalidateUser(ctx, userID)

	return nil
}

func (m *Mutate) updateUser(ctx context.Context, userID primitive.ObjectID, set bson.M) errors.APIError {
	set["updated_at"] = primitive.NewDateTimeFromTime(time.Now())

	res, err := m.mongo.Collection(mongo.CollectionNameUsers).UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": set},
	)
	if err != nil {
		return errors.ErrPersistenceFailure().SetDetail(err.Error())
	}

	if res.MatchedCount == 0 {
		return errors.ErrUnknownUser()
	}

	m.invalidateUser(ctx, userID)

	return nil
}
