package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Instance interface {
	Register(r prometheus.Registerer)

	CurrentSessions() prometheus.Gauge
	OnlineUsers() prometheus.Gauge
	EventsDispatched() *prometheus.CounterVec
	DeliveryFailures() prometheus.Counter
	MessagesCreated() prometheus.Counter
}

type Options struct {
	Labels prometheus.Labels
}

type inst struct {
	currentSessions  prometheus.Gauge
	onlineUsers      prometheus.Gauge
	eventsDispatched *prometheus.CounterVec
	deliveryFailures prometheus.Counter
	messagesCreated  prometheus.Counter
}

func New(o Options) Instance {
	return &inst{
		currentSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "chat_realtime_sessions",
			Help:        "The number of live websocket sessions",
			ConstLabels: o.Labels,
		}),
		onlineUsers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "chat_online_users",
			Help:        "The number of users with at least one live session",
			ConstLabels: o.Labels,
		}),
		eventsDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "chat_events_dispatched_total",
			Help:        "The number of realtime events dispatched, by event type",
			ConstLabels: o.Labels,
		}, []string{"event"}),
		deliveryFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "chat_delivery_failures_total",
			Help:        "The number of per-handle event deliveries that failed",
			ConstLabels: o.Labels,
		}),
		messagesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "chat_messages_created_total",
			Help:        "The number of messages durably persisted",
			ConstLabels: o.Labels,
		}),
	}
}

func (i *inst) Register(r prometheus.Registerer) {
	r.MustRegister(
		i.currentSessions,
		i.onlineUsers,
		i.eventsDispatched,
		i.deliveryFailures,
		i.messagesCreated,
	)
}

func (i *inst) CurrentSessions() prometheus.Gauge {
	return i.currentSessions
}

func (i *inst) OnlineUsers() prometheus.Gauge {
	return i.onlineUsers
}

func (i *inst) EventsDispatched() *prometheus.CounterVec {
	return i.eventsDispatched
}

func (i *inst) DeliveryFailures() prometheus.Counter {
	return i.deliveryFailures
}

func (i *inst) MessagesCreated() prometheus.Counter {
	return i.messagesCreated
}
