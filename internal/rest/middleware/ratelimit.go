package middleware

import (
	"time"

	"github.com/harshsahu0030/chat-app-backend/internal/errors"
	"github.com/harshsahu0030/chat-app-backend/internal/global"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/rest"
)

// RateLimit counts each request against the named bucket, keyed by the
// authenticated actor when one is set and by the remote address otherwise.
// Requests over the limit are rejected until the window rolls over.
func RateLimit(gCtx global.Context, bucket string, limit int64, window time.Duration) rest.Middleware {
	return func(ctx *rest.Ctx) rest.APIError {
		l := gCtx.Inst().Limiter
		if l == nil {
			return nil
		}

		identifier := ""
		if actor, ok := ctx.GetActor(); ok {
			identifier = actor.ID.Hex()
		} else {
			identifier = ctx.RemoteIP().String()
		}

		if !l.Test(ctx, identifier, bucket, limit, window) {
			return errors.ErrRateLimited()
		}

		return nil
	}
}
