package model

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Chat is the persisted chat document. Direct chats have exactly two members
// and no group name; group chats carry a name and an admin.
type Chat struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	IsGroupChat bool                 `bson:"is_group_chat"`
	GroupName   string               `bson:"group_name,omitempty"`
	CreatedBy   primitive.ObjectID   `bson:"created_by"`
	Admin       primitive.ObjectID   `bson:"admin,omitempty"`
	Members     []primitive.ObjectID `bson:"members"`
	LastMessage primitive.ObjectID   `bson:"last_message,omitempty"`
	CreatedAt   primitive.DateTime   `bson:"created_at"`
	UpdatedAt   primitive.DateTime   `bson:"updated_at"`
}

type ChatModel struct {
	ID          primitive.ObjectID `json:"id"`
	IsGroupChat bool               `json:"isGroupChat"`
	GroupName   string             `json:"groupName,omitempty"`
	Admin       primitive.ObjectID `json:"admin,omitempty"`
	Members     []UserPartialModel `json:"members"`
	LastMessage *MessageModel      `json:"lastMessage,omitempty"`
	UpdatedAt   int64              `json:"updatedAt"`
}

func (x *modelizer) Chat(v Chat, members []User, lastMessage *Message) ChatModel {
	m := ChatModel{
		ID:          v.ID,
		IsGroupChat: v.IsGroupChat,
		GroupName:   v.GroupName,
		Admin:       v.Admin,
		Members:     make([]UserPartialModel, len(members)),
		UpdatedAt:   v.UpdatedAt.Time().UnixMilli(),
	}

	byID := make(map[primitive.ObjectID]User, len(members))

	for i, u := range members {
		m.Members[i] = x.UserPartial(u)
		byID[u.ID] = u
	}

	if lastMessage != nil && !lastMessage.ID.IsZero() {
		lm := x.Message(*lastMessage, byID[lastMessage.Sender])
		m.LastMessage = &lm
	}

	return m
}
