package events

import (
	"github.com/hashicorp/go-multierror"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/harshsahu0030/chat-app-backend/data/events"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/presence"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/prometheus"
)

type Instance interface {
	// Dispatch delivers the event to every live handle of the target
	// identities. Per-handle failures are isolated and logged; they never
	// surface to the caller. Offline targets are skipped silently.
	Dispatch(targets []primitive.ObjectID, evt events.Outbound)

	// DispatchExcept behaves like Dispatch but skips the named session,
	// so a sender's own connection never sees its event echoed back.
	DispatchExcept(sessionID string, targets []primitive.ObjectID, evt events.Outbound)

	// Broadcast delivers the event to every currently-online user.
	Broadcast(evt events.Outbound)
}

type router struct {
	presence presence.Instance
	prom     prometheus.Instance
}

type Options struct {
	Presence   presence.Instance
	Prometheus prometheus.Instance
}

func New(opt Options) Instance {
	return &router{
		presence: opt.Presence,
		prom:     opt.Prometheus,
	}
}

func (r *router) Dispatch(targets []primitive.ObjectID, evt events.Outbound) {
	r.DispatchExcept("", targets, evt)
}

func (r *router) DispatchExcept(sessionID string, targets []primitive.ObjectID, evt events.Outbound) {
	data, err := evt.Marshal()
	if err != nil {
		zap.S().Errorw("events, failed to marshal outbound event",
			"event", evt.Event,
			"error", err,
		)

		return
	}

	var failed error

	delivered := 0

	for _, h := range r.presence.HandlesFor(targets) {
		if sessionID != "" && h.SessionID() == sessionID {
			continue
		}

		if err := h.Send(data); err != nil {
			failed = multierror.Append(failed, err)

			if r.prom != nil {
				r.prom.DeliveryFailures().Inc()
			}

			continue
		}

		delivered++
	}

	if r.prom != nil {
		r.prom.EventsDispatched().WithLabelValues(string(evt.Event)).Add(float64(delivered))
	}

	if failed != nil {
		zap.S().Warnw("events, partial dispatch",
			"event", evt.Event,
			"delivered", delivered,
			"error", failed,
		)
	}
}

func (r *router) Broadcast(evt events.Outbound) {
	r.Dispatch(r.presence.OnlineUsers(), evt)
}
