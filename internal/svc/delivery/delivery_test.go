package delivery

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	dataevents "github.com/harshsahu0030/chat-app-backend/data/events"
	"github.com/harshsahu0030/chat-app-backend/data/model"
	"github.com/harshsahu0030/chat-app-backend/internal/errors"
	"github.com/harshsahu0030/chat-app-backend/internal/testutil"
)

type fakeChatSource struct {
	chat    model.Chat
	members []primitive.ObjectID
	users   []model.User
}

func (f *fakeChatSource) ChatByID(ctx context.Context, id primitive.ObjectID) (model.Chat, errors.APIError) {
	if id != f.chat.ID {
		return model.Chat{}, errors.ErrUnknownChat()
	}

	return f.chat, nil
}

func (f *fakeChatSource) ChatMembers(ctx context.Context, chatID primitive.ObjectID) ([]primitive.ObjectID, errors.APIError) {
	return f.members, nil
}

func (f *fakeChatSource) ManyUsers(ctx context.Context, ids []primitive.ObjectID) ([]model.User, errors.APIError) {
	return f.users, nil
}

type fakeMessageStore struct {
	fail    bool
	created []model.Message
}

func (f *fakeMessageStore) CreateMessage(ctx context.Context, msg *model.Message) errors.APIError {
	if f.fail {
		return errors.ErrPersistenceFailure()
	}

	msg.ID = primitive.NewObjectID()
	f.created = append(f.created, *msg)

	return nil
}

type dispatched struct {
	targets []primitive.ObjectID
	evt     dataevents.Outbound
}

type fakeRouter struct {
	calls []dispatched
}

func (f *fakeRouter) Dispatch(targets []primitive.ObjectID, evt dataevents.Outbound) {
	f.calls = append(f.calls, dispatched{targets, evt})
}

func (f *fakeRouter) DispatchExcept(sessionID string, targets []primitive.ObjectID, evt dataevents.Outbound) {
	f.Dispatch(targets, evt)
}

func (f *fakeRouter) Broadcast(evt dataevents.Outbound) {}

func setup() (*fakeChatSource, *fakeMessageStore, *fakeRouter, Instance, model.User) {
	sender := model.User{ID: primitive.NewObjectID(), Name: "alice"}
	peer := model.User{ID: primitive.NewObjectID(), Name: "bob"}

	src := &fakeChatSource{
		chat: model.Chat{
			ID:      primitive.NewObjectID(),
			Members: []primitive.ObjectID{sender.ID, peer.ID},
		},
		members: []primitive.ObjectID{sender.ID, peer.ID},
		users:   []model.User{sender, peer},
	}
	store := &fakeMessageStore{}
	router := &fakeRouter{}

	coord := New(Options{
		Events:    router,
		Query:     src,
		Mutate:    store,
		Modelizer: model.NewInstance(model.ModelInstanceOptions{}),
	})

	return src, store, router, coord, sender
}

func TestNewMessagePersistsThenNotifiesAllMembers(t *testing.T) {
	t.Parallel()

	src, store, router, coord, sender := setup()

	msg, err := coord.NewMessage(context.Background(), sender, src.chat.ID, "hello")
	testutil.IsNil(t, err, "message accepted")
	testutil.Assert(t, "hello", msg.Content, "returned model carries the content")
	testutil.Assert(t, 1, len(store.created), "message persisted exactly once")
	testutil.Assert(t, 2, len(router.calls), "alert and message events both dispatched")

	alert, message := router.calls[0], router.calls[1]

	testutil.Assert(t, dataevents.EventTypeNewMessageAlert, alert.evt.Event, "alert goes out first")
	testutil.Assert(t, dataevents.EventTypeNewMessage, message.evt.Event, "message event follows")
	testutil.Assert(t, 2, len(alert.targets), "alert targets every member")
	testutil.Assert(t, 2, len(message.targets), "message targets every member")
	testutil.Assert(t, src.chat.ID.Hex(), message.evt.ChatID, "message event names the chat")
	testutil.IsNotNil(t, alert.evt.Chat, "alert embeds the chat")
}

func TestNewMessageEmitsNothingOnPersistenceFailure(t *testing.T) {
	t.Parallel()

	src, store, router, coord, sender := setup()
	store.fail = true

	_, err := coord.NewMessage(context.Background(), sender, src.chat.ID, "hello")
	testutil.IsNotNil(t, err, "persistence failure surfaces")
	testutil.Assert(t, 0, len(router.calls), "no event leaves on failure")
}

func TestNewMessageRejectsNonMembers(t *testing.T) {
	t.Parallel()

	src, store, router, coord, _ := setup()
	stranger := model.User{ID: primitive.NewObjectID(), Name: "mallory"}

	_, err := coord.NewMessage(context.Background(), stranger, src.chat.ID, "hello")
	testutil.IsNotNil(t, err, "non-member rejected")
	testutil.Assert(t, 0, len(store.created), "nothing persisted")
	testutil.Assert(t, 0, len(router.calls), "nothing dispatched")
}

func TestNewMessageRejectsEmptyContent(t *testing.T) {
	t.Parallel()

	src, store, _, coord, sender := setup()

	_, err := coord.NewMessage(context.Background(), sender, src.chat.ID, "")
	testutil.IsNotNil(t, err, "empty content rejected")
	testutil.Assert(t, 0, len(store.created), "nothing persisted")
}

func TestNewMessageUnknownChat(t *testing.T) {
	t.Parallel()

	_, store, _, coord, sender := setup()

	_, err := coord.NewMessage(context.Background(), sender, primitive.NewObjectID(), "hello")
	testutil.IsNotNil(t, err, "unknown chat rejected")
	testutil.Assert(t, 0, len(store.created), "nothing persisted")
}

func TestNewMessageUsesFreshMemberList(t *testing.T) {
	t.Parallel()

	src, _, router, coord, sender := setup()

	// A member joins between the persist and the fan-out
	late := primitive.NewObjectID()
	src.members = append(src.members, late)

	_, err := coord.NewMessage(context.Background(), sender, src.chat.ID, "hello")
	testutil.IsNil(t, err, "message accepted")
	testutil.Assert(t, 3, len(router.calls[0].targets), "fan-out reflects current membership")
}
