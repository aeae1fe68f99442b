package model

// Modelizer converts persisted documents into their wire representations.
type Modelizer interface {
	User(v User) UserModel
	UserPartial(v User) UserPartialModel
	Chat(v Chat, members []User, lastMessage *Message) ChatModel
	Message(v Message, sender User) MessageModel
	Friend(v Friend, users map[string]User) FriendModel
}

type modelizer struct {
	cdnURL     string
	websiteURL string
}

func NewInstance(opt ModelInstanceOptions) Modelizer {
	return &modelizer{
		cdnURL:     opt.CDN,
		websiteURL: opt.Website,
	}
}

type ModelInstanceOptions struct {
	CDN     string
	Website string
}
