package presence

import (
	"sync"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshsahu0030/chat-app-backend/internal/testutil"
)

type fakeHandle struct {
	id string
}

func (h *fakeHandle) SessionID() string {
	return h.id
}

func (h *fakeHandle) Send(data []byte) error {
	return nil
}

func TestRegisterDeregister(t *testing.T) {
	t.Parallel()

	reg := New(Options{})
	user := primitive.NewObjectID()

	cameOnline := reg.Register(user, &fakeHandle{id: "s1"})
	testutil.IsTrue(t, cameOnline, "first handle brings the user online")
	testutil.Assert(t, 1, len(reg.OnlineUsers()), "online set size")
	testutil.IsTrue(t, reg.IsOnline(user), "user online")

	cameOnline = reg.Register(user, &fakeHandle{id: "s2"})
	testutil.IsFalse(t, cameOnline, "second handle does not re-announce")
	testutil.Assert(t, 2, reg.SessionCount(), "session count")

	wentOffline := reg.Deregister(user, "s1")
	testutil.IsFalse(t, wentOffline, "one handle remains")
	testutil.IsTrue(t, reg.IsOnline(user), "user still online")

	wentOffline = reg.Deregister(user, "s2")
	testutil.IsTrue(t, wentOffline, "last handle removed")
	testutil.Assert(t, 0, len(reg.OnlineUsers()), "online set emptied")
	testutil.IsFalse(t, reg.IsOnline(user), "user offline")
}

func TestRegisterIdempotent(t *testing.T) {
	t.Parallel()

	reg := New(Options{})
	user := primitive.NewObjectID()
	h := &fakeHandle{id: "s1"}

	reg.Register(user, h)
	reg.Register(user, h)

	testutil.Assert(t, 1, reg.SessionCount(), "duplicate registration ignored")
	testutil.Assert(t, 1, len(reg.HandlesFor([]primitive.ObjectID{user})), "one handle resolved")
}

func TestDeregisterUnknownIsNoop(t *testing.T) {
	t.Parallel()

	reg := New(Options{})
	userA := primitive.NewObjectID()
	userB := primitive.NewObjectID()

	reg.Register(userA, &fakeHandle{id: "s1"})

	wentOffline := reg.Deregister(userB, "s1")
	testutil.IsFalse(t, wentOffline, "unknown user is a no-op")

	wentOffline = reg.Deregister(userA, "never-registered")
	testutil.IsFalse(t, wentOffline, "unknown session is a no-op")

	testutil.Assert(t, 1, reg.SessionCount(), "other entries untouched")
	testutil.IsTrue(t, reg.IsOnline(userA), "userA still online")
}

func TestDoubleDeregister(t *testing.T) {
	t.Parallel()

	reg := New(Options{})
	user := primitive.NewObjectID()

	reg.Register(user, &fakeHandle{id: "s1"})

	testutil.IsTrue(t, reg.Deregister(user, "s1"), "first deregister removes the entry")
	testutil.IsFalse(t, reg.Deregister(user, "s1"), "second deregister is a no-op")
	testutil.Assert(t, 0, reg.SessionCount(), "no sessions remain")
}

func TestHandlesForMultiDevice(t *testing.T) {
	t.Parallel()

	reg := New(Options{})
	userA := primitive.NewObjectID()
	userB := primitive.NewObjectID()
	offline := primitive.NewObjectID()

	reg.Register(userA, &fakeHandle{id: "a1"})
	reg.Register(userA, &fakeHandle{id: "a2"})
	reg.Register(userB, &fakeHandle{id: "b1"})

	handles := reg.HandlesFor([]primitive.ObjectID{userA, offline})
	testutil.Assert(t, 2, len(handles), "both of userA's handles, none for offline")

	handles = reg.HandlesFor([]primitive.ObjectID{userA, userB})
	testutil.Assert(t, 3, len(handles), "all live handles across identities")
}

func TestOnlineSetMatchesHandleSets(t *testing.T) {
	t.Parallel()

	reg := New(Options{})

	users := make([]primitive.ObjectID, 8)
	for i := range users {
		users[i] = primitive.NewObjectID()
		reg.Register(users[i], &fakeHandle{id: "s"})
	}

	testutil.Assert(t, 8, len(reg.OnlineUsers()), "every registered user online")

	for _, u := range users[:4] {
		reg.Deregister(u, "s")
	}

	online := reg.OnlineUsers()
	testutil.Assert(t, 4, len(online), "only users with live handles remain")

	seen := map[primitive.ObjectID]bool{}
	for _, id := range online {
		seen[id] = true
	}

	for _, u := range users[4:] {
		testutil.IsTrue(t, seen[u], "remaining user present in online set")
	}
}

func TestConcurrentChurn(t *testing.T) {
	t.Parallel()

	reg := New(Options{})
	user := primitive.NewObjectID()

	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(1)

		go func(id string) {
			defer wg.Done()

			h := &fakeHandle{id: id}
			for n := 0; n < 100; n++ {
				reg.Register(user, h)
				reg.HandlesFor([]primitive.ObjectID{user})
				reg.OnlineUsers()
				reg.Deregister(user, id)
			}
		}(primitive.NewObjectID().Hex())
	}

	wg.Wait()

	testutil.Assert(t, 0, reg.SessionCount(), "all sessions released")
	testutil.Assert(t, 0, len(reg.OnlineUsers()), "online set drained")
}
