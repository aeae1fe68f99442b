package model

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FriendStatus string

const (
	FriendStatusPending  FriendStatus = "PENDING"
	FriendStatusAccepted FriendStatus = "ACCEPTED"
)

// Friend is the persisted friend-relation document. Requester sent the
// request; recipient may accept it.
type Friend struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Requester primitive.ObjectID `bson:"requester"`
	Recipient primitive.ObjectID `bson:"recipient"`
	Status    FriendStatus       `bson:"status"`
	CreatedAt primitive.DateTime `bson:"created_at"`
}

type FriendModel struct {
	ID        primitive.ObjectID `json:"id"`
	Requester UserPartialModel   `json:"requester"`
	Recipient UserPartialModel   `json:"recipient"`
	Status    FriendStatus       `json:"status"`
	CreatedAt int64              `json:"createdAt"`
}

func (x *modelizer) Friend(v Friend, users map[string]User) FriendModel {
	return FriendModel{
		ID:        v.ID,
		Requester: x.UserPartial(users[v.Requester.Hex()]),
		Recipient: x.UserPartial(users[v.Recipient.Hex()]),
		Status:    v.Status,
		CreatedAt: v.CreatedAt.Time().UnixMilli(),
	}
}
