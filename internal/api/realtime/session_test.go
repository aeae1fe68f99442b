package realtime

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	dataevents "github.com/harshsahu0030/chat-app-backend/data/events"
	eventsvc "github.com/harshsahu0030/chat-app-backend/internal/svc/events"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/presence"
	"github.com/harshsahu0030/chat-app-backend/internal/testutil"
)

type recordingHandle struct {
	id       string
	received [][]byte
}

func (h *recordingHandle) SessionID() string {
	return h.id
}

func (h *recordingHandle) Send(data []byte) error {
	h.received = append(h.received, data)

	return nil
}

func setup() (presence.Instance, inboundHandler) {
	reg := presence.New(presence.Options{})
	h := inboundHandler{
		events: eventsvc.New(eventsvc.Options{Presence: reg}),
	}

	return reg, h
}

func TestTypingForwardedToNamedMembers(t *testing.T) {
	t.Parallel()

	reg, h := setup()
	userA := primitive.NewObjectID()
	userB := primitive.NewObjectID()
	chat := primitive.NewObjectID()

	sender := &recordingHandle{id: "a1"}
	peer := &recordingHandle{id: "b1"}
	reg.Register(userA, sender)
	reg.Register(userB, peer)

	h.handle(sender.SessionID(), dataevents.Inbound{
		Event:   dataevents.EventTypeTypingStart,
		Members: []string{userB.Hex()},
		ChatID:  chat.Hex(),
	})

	testutil.Assert(t, 1, len(peer.received), "named member received the typing signal")
	testutil.Assert(t, 0, len(sender.received), "sender did not receive its own signal")
}

func TestTypingNotEchoedToSendersSiblingSessions(t *testing.T) {
	t.Parallel()

	reg, h := setup()
	userA := primitive.NewObjectID()
	chat := primitive.NewObjectID()

	sender := &recordingHandle{id: "a1"}
	sibling := &recordingHandle{id: "a2"}
	reg.Register(userA, sender)
	reg.Register(userA, sibling)

	h.handle(sender.SessionID(), dataevents.Inbound{
		Event:   dataevents.EventTypeTypingStop,
		Members: []string{userA.Hex()},
		ChatID:  chat.Hex(),
	})

	testutil.Assert(t, 0, len(sender.received), "sending session excluded")
	testutil.Assert(t, 1, len(sibling.received), "sibling session included")
}

func TestTypingSelfEchoIncludesSender(t *testing.T) {
	t.Parallel()

	reg, h := setup()
	h.selfEcho = true

	userA := primitive.NewObjectID()
	chat := primitive.NewObjectID()

	sender := &recordingHandle{id: "a1"}
	reg.Register(userA, sender)

	h.handle(sender.SessionID(), dataevents.Inbound{
		Event:   dataevents.EventTypeTypingStart,
		Members: []string{userA.Hex()},
		ChatID:  chat.Hex(),
	})

	testutil.Assert(t, 1, len(sender.received), "sender receives its own signal when echo is on")
}

func TestNonTypingInboundIsIgnored(t *testing.T) {
	t.Parallel()

	reg, h := setup()
	userB := primitive.NewObjectID()
	chat := primitive.NewObjectID()

	peer := &recordingHandle{id: "b1"}
	reg.Register(userB, peer)

	// A client cannot inject message events over the socket
	h.handle("a1", dataevents.Inbound{
		Event:   dataevents.EventTypeNewMessage,
		Members: []string{userB.Hex()},
		ChatID:  chat.Hex(),
	})

	testutil.Assert(t, 0, len(peer.received), "non-typing frame dropped")
}

func TestMalformedMemberIDsAreSkipped(t *testing.T) {
	t.Parallel()

	reg, h := setup()
	userB := primitive.NewObjectID()
	chat := primitive.NewObjectID()

	peer := &recordingHandle{id: "b1"}
	reg.Register(userB, peer)

	h.handle("a1", dataevents.Inbound{
		Event:   dataevents.EventTypeTypingStart,
		Members: []string{"not-an-id", userB.Hex()},
		ChatID:  chat.Hex(),
	})

	testutil.Assert(t, 1, len(peer.received), "valid member still notified")
}

func TestSessionSendBufferSaturation(t *testing.T) {
	t.Parallel()

	s := newSession(primitive.NewObjectID(), nil, 2)

	testutil.IsNil(t, s.Send([]byte("a")), "first send buffered")
	testutil.IsNil(t, s.Send([]byte("b")), "second send buffered")
	testutil.IsTrue(t, errors.Is(s.Send([]byte("c")), ErrSessionFull), "saturated buffer rejects without blocking")
}

func TestSessionSendAfterClose(t *testing.T) {
	t.Parallel()

	s := newSession(primitive.NewObjectID(), nil, 2)
	s.close()

	testutil.IsTrue(t, errors.Is(s.Send([]byte("a")), errSessionClosed), "closed session rejects sends")
}

func TestSessionIDsAreUnique(t *testing.T) {
	t.Parallel()

	a := newSession(primitive.NewObjectID(), nil, 1)
	b := newSession(primitive.NewObjectID(), nil, 1)

	testutil.IsFalse(t, a.SessionID() == b.SessionID(), "session ids collide")
}
