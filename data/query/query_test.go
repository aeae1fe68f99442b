package query

import (
	"context"
	"testing"
	"time"

	redisdrv "github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshsahu0030/chat-app-backend/data/model"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/redis"
	"github.com/harshsahu0030/chat-app-backend/internal/testutil"
)

type mapRedis struct {
	values map[string]string
}

func newMapRedis() *mapRedis {
	return &mapRedis{values: map[string]string{}}
}

func (r *mapRedis) Ping(ctx context.Context) error {
	return nil
}

func (r *mapRedis) ComposeKey(parts ...string) redis.Key {
	k := "test"
	for _, p := range parts {
		k += ":" + p
	}

	return redis.Key(k)
}

func (r *mapRedis) Get(ctx context.Context, key redis.Key) (string, error) {
	v, ok := r.values[key.String()]
	if !ok {
		return "", redis.Nil
	}

	return v, nil
}

func (r *mapRedis) Set(ctx context.Context, key redis.Key, value interface{}) error {
	r.values[key.String()] = value.(string)

	return nil
}

func (r *mapRedis) SetEX(ctx context.Context, key redis.Key, value interface{}, ttl time.Duration) error {
	return r.Set(ctx, key, value)
}

func (r *mapRedis) Del(ctx context.Context, keys ...redis.Key) error {
	for _, k := range keys {
		delete(r.values, k.String())
	}

	return nil
}

func (r *mapRedis) IncrBy(ctx context.Context, key redis.Key, amount int64) (int64, error) {
	return amount, nil
}

func (r *mapRedis) Expire(ctx context.Context, key redis.Key, ttl time.Duration) error {
	return nil
}

func (r *mapRedis) RawClient() redisdrv.UniversalClient {
	return nil
}

// A cached user must be served without touching mongo: the instance here is
// nil, so any fall-through to the collection would panic.
func TestUserByIDIsMemoized(t *testing.T) {
	t.Parallel()

	q := New(nil, newMapRedis())
	id := primitive.NewObjectID()

	err := q.setInMemCache(context.Background(), q.key("user:"+id.Hex()), model.User{
		ID:           id,
		TokenVersion: 1,
	}, time.Second*30)
	testutil.IsNil(t, err, "cache seeded")

	user, apiErr := q.UserByID(context.Background(), id)
	testutil.IsNil(t, apiErr, "no error")
	testutil.Assert(t, id, user.ID, "cached user returned")
	testutil.Assert(t, float64(1), user.TokenVersion, "cached token version returned")
}

func TestInvalidateUserEvictsBothLayers(t *testing.T) {
	t.Parallel()

	rd := newMapRedis()
	q := New(nil, rd)
	id := primitive.NewObjectID()
	k := q.key("user:" + id.Hex())

	err := q.setInMemCache(context.Background(), k, model.User{
		ID:           id,
		TokenVersion: 1,
	}, time.Second*30)
	testutil.IsNil(t, err, "cache seeded")

	q.InvalidateUser(context.Background(), id)

	var user model.User
	testutil.IsTrue(t, !q.getFromMemCache(context.Background(), k, &user), "local layer no longer serves the user")

	_, getErr := rd.Get(context.Background(), k)
	testutil.IsTrue(t, getErr == redis.Nil, "redis layer no longer serves the user")
}
