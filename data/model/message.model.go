package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is the persisted message document.
type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Content   string             `bson:"content"`
	Sender    primitive.ObjectID `bson:"sender"`
	Chat      primitive.ObjectID `bson:"chat"`
	CreatedAt primitive.DateTime `bson:"created_at"`
}

type MessageModel struct {
	ID        primitive.ObjectID `json:"id"`
	Content   string             `json:"content"`
	Sender    MessageSenderModel `json:"sender"`
	ChatID    primitive.ObjectID `json:"chatId"`
	CreatedAt string             `json:"createdAt"`
}

type MessageSenderModel struct {
	ID   primitive.ObjectID `json:"id"`
	Name string             `json:"name"`
}

func (x *modelizer) Message(v Message, sender User) MessageModel {
	return MessageModel{
		ID:      v.ID,
		Content: v.Content,
		Sender: MessageSenderModel{
			ID:   v.Sender,
			Name: sender.Name,
		},
		ChatID:    v.Chat,
		CreatedAt: v.CreatedAt.Time().UTC().Format(time.RFC3339),
	}
}
