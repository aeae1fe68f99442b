package mutate

import (
	"context"
	"testing"
	"time"

	redisdrv "github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshsahu0030/chat-app-backend/internal/svc/redis"
	"github.com/harshsahu0030/chat-app-backend/internal/testutil"
)

type recordingInvalidator struct {
	ids []primitive.ObjectID
}

func (r *recordingInvalidator) InvalidateUser(ctx context.Context, id primitive.ObjectID) {
	r.ids = append(r.ids, id)
}

type delRecordingRedis struct {
	deleted []string
}

func (r *delRecordingRedis) Ping(ctx context.Context) error {
	return nil
}

func (r *delRecordingRedis) ComposeKey(parts ...string) redis.Key {
	k := "test"
	for _, p := range parts {
		k += ":" + p
	}

	return redis.Key(k)
}

func (r *delRecordingRedis) Get(ctx context.Context, key redis.Key) (string, error) {
	return "", redis.Nil
}

func (r *delRecordingRedis) Set(ctx context.Context, key redis.Key, value interface{}) error {
	return nil
}

func (r *delRecordingRedis) SetEX(ctx context.Context, key redis.Key, value interface{}, ttl time.Duration) error {
	return nil
}

func (r *delRecordingRedis) Del(ctx context.Context, keys ...redis.Key) error {
	for _, k := range keys {
		r.deleted = append(r.deleted, k.String())
	}

	return nil
}

func (r *delRecordingRedis) IncrBy(ctx context.Context, key redis.Key, amount int64) (int64, error) {
	return amount, nil
}

func (r *delRecordingRedis) Expire(ctx context.Context, key redis.Key, ttl time.Duration) error {
	return nil
}

func (r *delRecordingRedis) RawClient() redisdrv.UniversalClient {
	return nil
}

func TestUserWritesInvalidateThroughTheHook(t *testing.T) {
	t.Parallel()

	rec := &recordingInvalidator{}
	m := New(InstanceOptions{Cache: rec})
	id := primitive.NewObjectID()

	m.invalidateUser(context.Background(), id)

	testutil.Assert(t, 1, len(rec.ids), "hook invoked once")
	testutil.Assert(t, id, rec.ids[0], "hook received the written user id")
}

func TestUserWritesEvictRedisWithoutAHook(t *testing.T) {
	t.Parallel()

	rd := &delRecordingRedis{}
	m := New(InstanceOptions{Redis: rd})
	id := primitive.NewObjectID()

	m.invalidateUser(context.Background(), id)

	testutil.Assert(t, 1, len(rd.deleted), "redis copy evicted")
	testutil.Assert(t, "test:query:cache:user:"+id.Hex(), rd.deleted[0], "eviction hit the read-side cache key")
}
