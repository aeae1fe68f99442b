package global

import (
	"github.com/harshsahu0030/chat-app-backend/data/model"
	"github.com/harshsahu0030/chat-app-backend/data/mutate"
	"github.com/harshsahu0030/chat-app-backend/data/query"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/auth"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/delivery"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/events"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/limiter"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/mongo"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/mq"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/presence"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/prometheus"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/redis"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/s3"
)

type Instances struct {
	Mongo      mongo.Instance
	Redis      redis.Instance
	S3         s3.Instance
	MQ         mq.Instance
	Prometheus prometheus.Instance
	Limiter    limiter.Instance

	Auth     auth.Authorizer
	Presence presence.Instance
	Events   events.Instance
	Delivery delivery.Instance

	Query     *query.Query
	Mutate    *mutate.Mutate
	Modelizer model.Modelizer
}
