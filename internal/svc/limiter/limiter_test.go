package limiter

import (
	"errors"
	"testing"

	"github.com/harshsahu0030/chat-app-backend/internal/svc/redis"
	"github.com/harshsahu0030/chat-app-backend/internal/testutil"
)

func TestBucketHashSeparatesIdentifiersAndBuckets(t *testing.T) {
	t.Parallel()

	a := bucketHash("user-a", "auth-login")

	testutil.Assert(t, a, bucketHash("user-a", "auth-login"), "stable for the same pair")
	testutil.IsTrue(t, a != bucketHash("user-b", "auth-login"), "identifiers do not share counters")
	testutil.IsTrue(t, a != bucketHash("user-a", "auth-register"), "buckets do not share counters")
	testutil.Assert(t, bucketHash("any", "auth-login"), bucketHash("", "auth-login"), "anonymous hits fold together")
}

func TestCountHitHonorsTheLimit(t *testing.T) {
	t.Parallel()

	count := int64(0)
	incr := func(redis.Key) (int64, error) {
		count++

		return count, nil
	}

	for i := 0; i < 3; i++ {
		testutil.IsTrue(t, countHit(redis.Key("k"), 3, incr), "hit within the limit allowed")
	}

	testutil.IsTrue(t, !countHit(redis.Key("k"), 3, incr), "hit over the limit rejected")
}

func TestCountHitFailsOpen(t *testing.T) {
	t.Parallel()

	incr := func(redis.Key) (int64, error) {
		return 0, errors.New("script missing")
	}

	testutil.IsTrue(t, countHit(redis.Key("k"), 1, incr), "redis trouble does not reject requests")
}
