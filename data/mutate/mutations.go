package mutate

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshsahu0030/chat-app-backend/internal/svc/mongo"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/prometheus"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/redis"
)

// UserCacheInvalidator evicts a memoized user lookup after a write. The read
// side serves credential checks from a short-lived cache; without eviction a
// bumped token version stays invisible until the TTL runs out.
type UserCacheInvalidator interface {
	InvalidateUser(ctx context.Context, id primitive.ObjectID)
}

// Mutate is the write side of the persistence layer.
type Mutate struct {
	mongo mongo.Instance
	redis redis.Instance
	prom  prometheus.Instance
	cache UserCacheInvalidator
}

func New(opt InstanceOptions) *Mutate {
	return &Mutate{
		mongo: opt.Mongo,
		redis: opt.Redis,
		prom:  opt.Prometheus,
		cache: opt.Cache,
	}
}

type InstanceOptions struct {
	Mongo      mongo.Instance
	Redis      redis.Instance
	Prometheus prometheus.Instance
	Cache      UserCacheInvalidator
}

func (m *Mutate) invalidateUser(ctx context.Context, userID primitive.ObjectID) {
	if m.cache != nil {
		m.cache.InvalidateUser(ctx, userID)

		return
	}

	// No local read side wired, evict the shared redis copy directly
	if m.redis != nil {
		_ = m.redis.Del(ctx, m.redis.ComposeKey("query", "cache", "user:"+userID.Hex()))
	}
}
