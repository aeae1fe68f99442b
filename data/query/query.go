package query

import (
	"context"
	"time"

	"github.com/hashicorp/go-multierror"
	jsoniter "github.com/json-iterator/go"
	"github.com/patrickmn/go-cache"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/harshsahu0030/chat-app-backend/internal/svc/mongo"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/redis"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Query is the read side of the persistence layer. Hot lookups are memoized
// in a small in-process cache backed by redis, so bursts of identical
// resolutions (credential checks, member-list fetches) do not hammer mongo.
type Query struct {
	mongo mongo.Instance
	redis redis.Instance
	c     *cache.Cache
}

func New(mongoInst mongo.Instance, redisInst redis.Instance) *Query {
	return &Query{
		mongo: mongoInst,
		redis: redisInst,
		c:     cache.New(time.Second*30, time.Minute*1),
	}
}

func (q *Query) key(tag string) redis.Key {
	return q.redis.ComposeKey("query", "cache", tag)
}

// InvalidateUser evicts a memoized user lookup from both cache layers.
// Credential checks read the token version through UserByID, so a write that
// revokes tokens must evict here or the revocation lags the cache TTL.
func (q *Query) InvalidateUser(ctx context.Context, id primitive.ObjectID) {
	k := q.key("user:" + id.Hex())

	q.c.Delete(k.String())

	if err := q.redis.Del(ctx, k); err != nil && err != redis.Nil {
		zap.S().Warnw("query, failed to evict a cached user",
			"error", err,
			"key", k,
		)
	}
}

func (q *Query) getFromMemCache(ctx context.Context, key redis.Key, i interface{}) bool {
	var (
		s   string
		err error
	)

	v, ok := q.c.Get(key.String())

	if ok {
		s = v.(string)
	} else {
		s, err = q.redis.Get(ctx, key)
	}

	if len(s) > 0 {
		if err := multierror.Append(err, json.UnmarshalFromString(s, i)).ErrorOrNil(); err != nil {
			if err != redis.Nil {
				zap.S().Errorw("query, failed to retrieve a cached item",
					"error", err,
					"key", key,
				)
			}

			return false
		}

		return true
	}

	return false
}

func (q *Query) setInMemCache(ctx context.Context, key redis.Key, i interface{}, ex time.Duration) error {
	s, err := json.MarshalToString(i)
	if err == nil {
		if err = q.c.Add(key.String(), s, ex); err != nil {
			return err
		}

		if err = q.redis.SetEX(ctx, key, s, ex); err != nil {
			return err
		}
	}

	return nil
}
