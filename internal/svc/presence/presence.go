package presence

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshsahu0030/chat-app-backend/internal/svc/prometheus"
)

// Handle is an opaque reference to one live connection, used for targeted
// delivery. Send must not block indefinitely; a saturated or torn-down
// connection returns an error instead.
type Handle interface {
	SessionID() string
	Send(data []byte) error
}

type Instance interface {
	// Register adds a handle to the user's live set, creating the entry on
	// first registration. Idempotent per (user, session id). Returns whether
	// the user transitioned from offline to online.
	Register(userID primitive.ObjectID, h Handle) (cameOnline bool)

	// Deregister removes the handle and drops the user's entry once the last
	// handle is gone. Unknown pairs are a no-op; disconnect races and double
	// disconnects must never fail. Returns whether the user transitioned
	// from online to offline.
	Deregister(userID primitive.ObjectID, sessionID string) (wentOffline bool)

	// HandlesFor flattens the live handles of the given identities. Offline
	// identities contribute nothing.
	HandlesFor(userIDs []primitive.ObjectID) []Handle

	// OnlineUsers returns a snapshot of every identity with at least one
	// live handle.
	OnlineUsers() []primitive.ObjectID

	IsOnline(userID primitive.ObjectID) bool
	SessionCount() int
}

type registry struct {
	mtx sync.RWMutex

	handles  map[primitive.ObjectID]map[string]Handle
	online   []primitive.ObjectID
	sessions int

	prom prometheus.Instance
}

type Options struct {
	Prometheus prometheus.Instance
}

func New(opt Options) Instance {
	return &registry{
		handles: map[primitive.ObjectID]map[string]Handle{},
		prom:    opt.Prometheus,
	}
}

func (r *registry) Register(userID primitive.ObjectID, h Handle) bool {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	set, ok := r.handles[userID]
	if !ok {
		set = map[string]Handle{}
		r.handles[userID] = set
	}

	if _, exists := set[h.SessionID()]; exists {
		return false
	}

	set[h.SessionID()] = h
	r.sessions++

	cameOnline := len(set) == 1
	if cameOnline {
		r.refreshOnlineLocked()
	}

	r.updateMetricsLocked()

	return cameOnline
}

func (r *registry) Deregister(userID primitive.ObjectID, sessionID string) bool {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	set, ok := r.handles[userID]
	if !ok {
		return false
	}

	if _, exists := set[sessionID]; !exists {
		return false
	}

	delete(set, sessionID)
	r.sessions--

	wentOffline := len(set) == 0
	if wentOffline {
		delete(r.handles, userID)
		r.refreshOnlineLocked()
	}

	r.updateMetricsLocked()

	return wentOffline
}

func (r *registry) HandlesFor(userIDs []primitive.ObjectID) []Handle {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	result := []Handle{}

	for _, id := range userIDs {
		for _, h := range r.handles[id] {
			result = append(result, h)
		}
	}

	return result
}

func (r *registry) OnlineUsers() []primitive.ObjectID {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	result := make([]primitive.ObjectID, len(r.online))
	copy(result, r.online)

	return result
}

func (r *registry) IsOnline(userID primitive.ObjectID) bool {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	return len(r.handles[userID]) > 0
}

func (r *registry) SessionCount() int {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	return r.sessions
}

// refreshOnlineLocked rebuilds the cached online projection. Kept under the
// same lock as every mutation so the projection can never diverge from the
// handle map.
func (r *registry) refreshOnlineLocked() {
	r.online = r.online[:0]

	for id, set := range r.handles {
		if len(set) > 0 {
			r.online = append(r.online, id)
		}
	}
}

func (r *registry) updateMetricsLocked() {
	if r.prom == nil {
		return
	}

	r.prom.CurrentSessions().Set(float64(r.sessions))
	r.prom.OnlineUsers().Set(float64(len(r.handles)))
}
