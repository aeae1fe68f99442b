package middleware

import (
	"strings"

	"github.com/harshsahu0030/chat-app-backend/data/model"
	"github.com/harshsahu0030/chat-app-backend/internal/errors"
	"github.com/harshsahu0030/chat-app-backend/internal/global"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/rest"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/auth"
)

// Auth rejects the request unless a valid credential is presented, either
// via the auth cookie or an Authorization bearer header.
func Auth(gCtx global.Context) rest.Middleware {
	return func(ctx *rest.Ctx) rest.APIError {
		user, err := authenticate(gCtx, ctx)
		if err != nil {
			return err
		}

		ctx.SetActor(&user)
		return nil
	}
}

// AnyAuth resolves the actor when a credential is present, but lets
// anonymous requests through.
func AnyAuth(gCtx global.Context) rest.Middleware {
	return func(ctx *rest.Ctx) rest.APIError {
		user, err := authenticate(gCtx, ctx)
		if err != nil {
			return nil
		}

		ctx.SetActor(&user)
		return nil
	}
}

func authenticate(gCtx global.Context, ctx *rest.Ctx) (user model.User, apiErr rest.APIError) {
	token := string(ctx.Request.Header.Cookie(auth.COOKIE_AUTH))
	if token == "" {
		h := strings.TrimSpace(string(ctx.Request.Header.Peek("Authorization")))
		if strings.HasPrefix(strings.ToLower(h), "bearer ") {
			token = strings.TrimSpace(h[len("bearer "):])
		}
	}
	if token == "" {
		return user, errors.ErrUnauthorized().SetDetail("no credential presented")
	}

	return gCtx.Inst().Auth.Authenticate(ctx, token)
}
