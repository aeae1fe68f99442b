package events

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	dataevents "github.com/harshsahu0030/chat-app-backend/data/events"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/presence"
	"github.com/harshsahu0030/chat-app-backend/internal/testutil"
)

type recordingHandle struct {
	id       string
	received [][]byte
	fail     bool
}

func (h *recordingHandle) SessionID() string {
	return h.id
}

func (h *recordingHandle) Send(data []byte) error {
	if h.fail {
		return errors.New("half-closed connection")
	}

	h.received = append(h.received, data)

	return nil
}

func setup() (presence.Instance, Instance) {
	reg := presence.New(presence.Options{})
	rtr := New(Options{Presence: reg})

	return reg, rtr
}

func TestDispatchReachesAllHandlesOfUser(t *testing.T) {
	t.Parallel()

	reg, rtr := setup()
	user := primitive.NewObjectID()
	chat := primitive.NewObjectID()

	h1 := &recordingHandle{id: "s1"}
	h2 := &recordingHandle{id: "s2"}
	reg.Register(user, h1)
	reg.Register(user, h2)

	rtr.Dispatch([]primitive.ObjectID{user}, dataevents.NewTyping(dataevents.EventTypeTypingStart, chat))

	testutil.Assert(t, 1, len(h1.received), "first device received the event")
	testutil.Assert(t, 1, len(h2.received), "second device received the event")
}

func TestDispatchSkipsOfflineTargets(t *testing.T) {
	t.Parallel()

	reg, rtr := setup()
	online := primitive.NewObjectID()
	offline := primitive.NewObjectID()
	chat := primitive.NewObjectID()

	h := &recordingHandle{id: "s1"}
	reg.Register(online, h)

	rtr.Dispatch([]primitive.ObjectID{online, offline}, dataevents.NewTyping(dataevents.EventTypeTypingStop, chat))

	testutil.Assert(t, 1, len(h.received), "online target received the event")
}

func TestDispatchIsolatesHandleFailures(t *testing.T) {
	t.Parallel()

	reg, rtr := setup()
	userA := primitive.NewObjectID()
	userB := primitive.NewObjectID()
	chat := primitive.NewObjectID()

	broken := &recordingHandle{id: "s1", fail: true}
	healthy := &recordingHandle{id: "s2"}
	reg.Register(userA, broken)
	reg.Register(userB, healthy)

	rtr.Dispatch([]primitive.ObjectID{userA, userB}, dataevents.NewTyping(dataevents.EventTypeTypingStart, chat))

	testutil.Assert(t, 1, len(healthy.received), "failure on one handle does not abort the rest")
}

func TestDispatchExceptExcludesSession(t *testing.T) {
	t.Parallel()

	reg, rtr := setup()
	user := primitive.NewObjectID()
	chat := primitive.NewObjectID()

	sender := &recordingHandle{id: "sender"}
	other := &recordingHandle{id: "other"}
	reg.Register(user, sender)
	reg.Register(user, other)

	rtr.DispatchExcept("sender", []primitive.ObjectID{user}, dataevents.NewTyping(dataevents.EventTypeTypingStart, chat))

	testutil.Assert(t, 0, len(sender.received), "sending session excluded")
	testutil.Assert(t, 1, len(other.received), "sibling session included")
}

func TestBroadcastReachesOnlineSet(t *testing.T) {
	t.Parallel()

	reg, rtr := setup()
	userA := primitive.NewObjectID()
	userB := primitive.NewObjectID()

	hA := &recordingHandle{id: "a"}
	hB := &recordingHandle{id: "b"}
	reg.Register(userA, hA)
	reg.Register(userB, hB)

	rtr.Broadcast(dataevents.NewOnlineUsers(reg.OnlineUsers()))

	testutil.Assert(t, 1, len(hA.received), "userA received the broadcast")
	testutil.Assert(t, 1, len(hB.received), "userB received the broadcast")
}
