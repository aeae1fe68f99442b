package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/harshsahu0030/chat-app-backend/internal/configure"
	"github.com/harshsahu0030/chat-app-backend/internal/errors"
	"github.com/harshsahu0030/chat-app-backend/internal/global"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/rest"
	"github.com/harshsahu0030/chat-app-backend/internal/testutil"
)

type fixedLimiter struct {
	allow   bool
	buckets []string
}

func (l *fixedLimiter) Test(ctx context.Context, identifier string, bucket string, limit int64, dur time.Duration) bool {
	l.buckets = append(l.buckets, bucket)

	return l.allow
}

func (l *fixedLimiter) ScriptOk(ctx context.Context) bool {
	return true
}

func (l *fixedLimiter) LoadScript(ctx context.Context) error {
	return nil
}

func TestRateLimitRejectsOverTheLimit(t *testing.T) {
	t.Parallel()

	gCtx := global.New(context.Background(), &configure.Config{})
	lim := &fixedLimiter{}
	gCtx.Inst().Limiter = lim

	mw := RateLimit(gCtx, "auth-login", 10, time.Minute)

	err := mw(&rest.Ctx{RequestCtx: &fasthttp.RequestCtx{}})
	testutil.IsTrue(t, err != nil, "over-limit request rejected")
	testutil.Assert(t, errors.ErrRateLimited().Code(), err.Code(), "rejected with the rate limit code")
	testutil.Assert(t, "auth-login", lim.buckets[0], "counted against the route bucket")
}

func TestRateLimitAllowsWithinTheLimit(t *testing.T) {
	t.Parallel()

	gCtx := global.New(context.Background(), &configure.Config{})
	gCtx.Inst().Limiter = &fixedLimiter{allow: true}

	mw := RateLimit(gCtx, "auth-login", 10, time.Minute)

	testutil.IsNil(t, mw(&rest.Ctx{RequestCtx: &fasthttp.RequestCtx{}}), "request within the limit passes")
}

func TestRateLimitPassesWithoutALimiter(t *testing.T) {
	t.Parallel()

	gCtx := global.New(context.Background(), &configure.Config{})

	mw := RateLimit(gCtx, "auth-login", 10, time.Minute)

	testutil.IsNil(t, mw(&rest.Ctx{RequestCtx: &fasthttp.RequestCtx{}}), "no limiter wired, nothing to enforce")
}
