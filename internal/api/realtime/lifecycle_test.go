package realtime

import (
	"testing"

	jsoniter "github.com/json-iterator/go"
	"go.mongodb.org/mongo-driver/bson/primitive"

	dataevents "github.com/harshsahu0030/chat-app-backend/data/events"
	eventsvc "github.com/harshsahu0030/chat-app-backend/internal/svc/events"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/presence"
	"github.com/harshsahu0030/chat-app-backend/internal/testutil"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func lifecycleSetup() (presence.Instance, eventsvc.Instance) {
	reg := presence.New(presence.Options{})

	return reg, eventsvc.New(eventsvc.Options{Presence: reg})
}

func lastOnlineUsers(t *testing.T, h *recordingHandle) []string {
	t.Helper()

	if len(h.received) == 0 {
		t.Fatal("handle received nothing")
	}

	var out dataevents.Outbound
	if err := json.Unmarshal(h.received[len(h.received)-1], &out); err != nil {
		t.Fatalf("malformed frame: %v", err)
	}

	testutil.Assert(t, dataevents.EventTypeOnlineUsers, out.Event, "frame carries the online set")

	return out.Users
}

func TestFirstHandleBroadcastsTheOnlineSet(t *testing.T) {
	t.Parallel()

	reg, router := lifecycleSetup()
	userA := primitive.NewObjectID()
	userB := primitive.NewObjectID()

	a1 := &recordingHandle{id: "a1"}
	announceOnline(reg, router, userA, a1)
	a1.received = nil

	b1 := &recordingHandle{id: "b1"}
	cameOnline := announceOnline(reg, router, userB, b1)

	testutil.IsTrue(t, cameOnline, "first handle brought the user online")
	testutil.Assert(t, 1, len(a1.received), "existing session told of the change")

	users := lastOnlineUsers(t, a1)
	testutil.Assert(t, 2, len(users), "both users in the set")
}

func TestRedundantHandleGetsAPrivateSnapshot(t *testing.T) {
	t.Parallel()

	reg, router := lifecycleSetup()
	userA := primitive.NewObjectID()

	a1 := &recordingHandle{id: "a1"}
	announceOnline(reg, router, userA, a1)
	a1.received = nil

	a2 := &recordingHandle{id: "a2"}
	cameOnline := announceOnline(reg, router, userA, a2)

	testutil.IsTrue(t, !cameOnline, "the user was already online")
	testutil.Assert(t, 0, len(a1.received), "no broadcast for a redundant handle")
	testutil.Assert(t, 1, len(a2.received), "the new handle still learns who is online")

	users := lastOnlineUsers(t, a2)
	testutil.Assert(t, 1, len(users), "snapshot holds the one online user")
	testutil.Assert(t, userA.Hex(), users[0], "snapshot names the user")
}

func TestRedundantHandleDisconnectStaysSilent(t *testing.T) {
	t.Parallel()

	reg, router := lifecycleSetup()
	userA := primitive.NewObjectID()
	userB := primitive.NewObjectID()

	a1 := &recordingHandle{id: "a1"}
	a2 := &recordingHandle{id: "a2"}
	b1 := &recordingHandle{id: "b1"}
	announceOnline(reg, router, userA, a1)
	announceOnline(reg, router, userA, a2)
	announceOnline(reg, router, userB, b1)

	a1.received = nil
	a2.received = nil
	b1.received = nil

	wentOffline := announceOffline(reg, router, userA, "a2")

	testutil.IsTrue(t, !wentOffline, "a sibling handle is still live")
	testutil.Assert(t, 0, len(a1.received), "no frame to the sibling")
	testutil.Assert(t, 0, len(b1.received), "no frame to other users")
	testutil.IsTrue(t, reg.IsOnline(userA), "the user stayed online")
}

func TestLastHandleDisconnectBroadcastsTheRemainingSet(t *testing.T) {
	t.Parallel()

	reg, router := lifecycleSetup()
	userA := primitive.NewObjectID()
	userB := primitive.NewObjectID()

	a1 := &recordingHandle{id: "a1"}
	b1 := &recordingHandle{id: "b1"}
	announceOnline(reg, router, userA, a1)
	announceOnline(reg, router, userB, b1)

	a1.received = nil
	b1.received = nil

	wentOffline := announceOffline(reg, router, userA, "a1")

	testutil.IsTrue(t, wentOffline, "the last handle took the user offline")
	testutil.Assert(t, 0, len(a1.received), "the departed session receives nothing")

	users := lastOnlineUsers(t, b1)
	testutil.Assert(t, 1, len(users), "the departed user is absent from the set")
	testutil.Assert(t, userB.Hex(), users[0], "the remaining user is present")
}
