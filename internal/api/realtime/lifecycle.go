package realtime

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshsahu0030/chat-app-backend/data/events"
	eventsvc "github.com/harshsahu0030/chat-app-backend/internal/svc/events"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/presence"
)

// announceOnline binds a handle to its user and publishes the presence
// change. A first handle changes the online set, so the refreshed set is
// broadcast to everyone. A redundant handle changes nothing and the snapshot
// goes to the new handle alone.
func announceOnline(reg presence.Instance, router eventsvc.Instance, userID primitive.ObjectID, h presence.Handle) (cameOnline bool) {
	cameOnline = reg.Register(userID, h)

	if cameOnline {
		router.Broadcast(events.NewOnlineUsers(reg.OnlineUsers()))
	} else if data, err := events.NewOnlineUsers(reg.OnlineUsers()).Marshal(); err == nil {
		_ = h.Send(data)
	}

	return cameOnline
}

// announceOffline drops the handle and, once the user's last handle is gone,
// broadcasts the online set as it stands after the removal. Redundant
// handles leave the set untouched and nothing is published.
func announceOffline(reg presence.Instance, router eventsvc.Instance, userID primitive.ObjectID, sessionID string) (wentOffline bool) {
	wentOffline = reg.Deregister(userID, sessionID)

	if wentOffline {
		router.Broadcast(events.NewOnlineUsers(reg.OnlineUsers()))
	}

	return wentOffline
}
