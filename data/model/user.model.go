package model

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the persisted user document.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	Password     string             `bson:"password"` // bcrypt hash, never serialized to the wire
	Avatar       UserAvatar         `bson:"avatar,omitempty"`
	Verified     bool               `bson:"verified"`
	TokenVersion float64            `bson:"token_version"`
	CreatedAt    primitive.DateTime `bson:"created_at"`
	UpdatedAt    primitive.DateTime `bson:"updated_at"`
}

type UserAvatar struct {
	Key string `bson:"key,omitempty" json:"-"`
	URL string `bson:"url,omitempty" json:"url,omitempty"`
}

type UserModel struct {
	ID        primitive.ObjectID `json:"id"`
	Username  string             `json:"username"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	AvatarURL string             `json:"avatar_url,omitempty"`
	Verified  bool               `json:"verified"`
	CreatedAt int64              `json:"createdAt"`
}

type UserPartialModel struct {
	ID        primitive.ObjectID `json:"id"`
	Username  string             `json:"username"`
	Name      string             `json:"name"`
	AvatarURL string             `json:"avatar_url,omitempty"`
}

func (x *modelizer) User(v User) UserModel {
	return UserModel{
		ID:        v.ID,
		Username:  v.Username,
		Name:      v.Name,
		Email:     v.Email,
		AvatarURL: x.avatarURL(v),
		Verified:  v.Verified,
		CreatedAt: v.CreatedAt.Time().UnixMilli(),
	}
}

func (x *modelizer) UserPartial(v User) UserPartialModel {
	return UserPartialModel{
		ID:        v.ID,
		Username:  v.Username,
		Name:      v.Name,
		AvatarURL: x.avatarURL(v),
	}
}

func (x *modelizer) avatarURL(v User) string {
	if v.Avatar.URL != "" {
		return v.Avatar.URL
	}

	if v.Avatar.Key != "" && x.cdnURL != "" {
		return x.cdnURL + "/" + v.Avatar.Key
	}

	return ""
}
