package events

import (
	jsoniter "github.com/json-iterator/go"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshsahu0030/chat-app-backend/data/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type EventType string

const (
	EventTypeTypingStart     EventType = "TYPING_START"
	EventTypeTypingStop      EventType = "TYPING_STOP"
	EventTypeNewMessage      EventType = "NEW_MESSAGE"
	EventTypeNewMessageAlert EventType = "NEW_MESSAGE_ALERT"
	EventTypeOnlineUsers     EventType = "ONLINE_USERS"
)

// Outbound is the envelope delivered to live connections. Exactly the fields
// relevant to the event type are set; the rest are omitted from the wire.
type Outbound struct {
	Event   EventType           `json:"event"`
	ChatID  string              `json:"chatId,omitempty"`
	Chat    *model.ChatModel    `json:"chat,omitempty"`
	Message *model.MessageModel `json:"message,omitempty"`
	Users   []string            `json:"users,omitempty"`
}

func (o Outbound) Marshal() ([]byte, error) {
	return json.Marshal(o)
}

// Inbound is a client-originated frame read off a live connection. Members
// names the other chat participants to notify; the sender identity is never
// taken from the frame.
type Inbound struct {
	Event   EventType `json:"event"`
	Members []string  `json:"members"`
	ChatID  string    `json:"chatId"`
}

func ParseInbound(data []byte) (Inbound, error) {
	var in Inbound
	err := json.Unmarshal(data, &in)

	return in, err
}

func NewTyping(typ EventType, chatID primitive.ObjectID) Outbound {
	return Outbound{
		Event:  typ,
		ChatID: chatID.Hex(),
	}
}

func NewMessage(chatID primitive.ObjectID, msg model.MessageModel) Outbound {
	return Outbound{
		Event:   EventTypeNewMessage,
		ChatID:  chatID.Hex(),
		Message: &msg,
	}
}

func NewMessageAlert(chat model.ChatModel) Outbound {
	return Outbound{
		Event: EventTypeNewMessageAlert,
		Chat:  &chat,
	}
}

func NewOnlineUsers(userIDs []primitive.ObjectID) Outbound {
	users := make([]string, len(userIDs))
	for i, id := range userIDs {
		users[i] = id.Hex()
	}

	return Outbound{
		Event: EventTypeOnlineUsers,
		Users: users,
	}
}
