package limiter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/harshsahu0030/chat-app-backend/internal/svc/redis"
)

type Instance interface {
	// Test counts a hit against the bucket for the identifier and reports
	// whether the hit stayed within the limit. Redis trouble fails open so
	// a cache outage cannot lock everyone out.
	Test(ctx context.Context, identifier string, bucket string, limit int64, dur time.Duration) bool

	ScriptOk(ctx context.Context) bool
	LoadScript(ctx context.Context) error
}

type limiterInst struct {
	redis  redis.Instance
	script string

	mx *sync.Mutex
}

func New(ctx context.Context, rdis redis.Instance) (Instance, error) {
	l := limiterInst{
		redis: rdis,
		mx:    &sync.Mutex{},
	}

	if err := l.LoadScript(ctx); err != nil {
		return &l, err
	}

	return &l, nil
}

func (inst *limiterInst) ScriptOk(ctx context.Context) bool {
	ok, _ := inst.redis.RawClient().ScriptExists(ctx, inst.script).Result()
	if len(ok) == 0 || !ok[0] {
		return false
	}

	return true
}

func (inst *limiterInst) LoadScript(ctx context.Context) error {
	inst.mx.Lock()
	defer inst.mx.Unlock()

	var err error

	inst.script, err = inst.redis.RawClient().ScriptLoad(ctx, `
		local key = ARGV[1]
		local expire = tonumber(ARGV[2])
		local limit = tonumber(ARGV[3])

		local exists = redis.call("EXISTS", key)

		local count = redis.call("INCRBY", key, 1)

		if exists == 0 then
			redis.call("EXPIRE", key, expire)
			return {count, expire}
		end

		local ttl = redis.call("TTL", key)

		return {count, ttl}
`).Result()
	if err != nil {
		return err
	}

	return nil
}

func (inst *limiterInst) Test(ctx context.Context, identifier string, bucket string, limit int64, dur time.Duration) bool {
	return countHit(inst.keyFor(identifier, bucket), limit, func(k redis.Key) (int64, error) {
		res, err := inst.redis.RawClient().EvalSha(
			ctx,
			inst.script,
			[]string{},
			k.String(),
			int64(dur.Seconds()),
			limit,
		).Result()
		if err != nil {
			return 0, err
		}

		var count int64

		if vals, ok := res.([]interface{}); ok && len(vals) > 0 {
			if v, ok := vals[0].(int64); ok {
				count = v
			}
		}

		return count, nil
	})
}

func (inst *limiterInst) keyFor(identifier string, bucket string) redis.Key {
	return inst.redis.ComposeKey("rl", bucketHash(identifier, bucket))
}

func bucketHash(identifier string, bucket string) string {
	if identifier == "" {
		identifier = "any"
	}

	h := sha256.New()
	h.Write([]byte(identifier))
	h.Write([]byte(bucket))

	return hex.EncodeToString(h.Sum(nil))
}

func countHit(k redis.Key, limit int64, incr func(redis.Key) (int64, error)) bool {
	count, err := incr(k)
	if err != nil {
		zap.S().Errorw("limiter, failed to test",
			"key", k,
			"error", err,
		)

		return true
	}

	return count <= limit
}
