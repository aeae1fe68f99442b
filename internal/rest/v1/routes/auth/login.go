package auth

import (
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"golang.org/x/crypto/bcrypt"

	"github.com/harshsahu0030/chat-app-backend/internal/errors"
	"github.com/harshsahu0030/chat-app-backend/internal/global"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/middleware"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/rest"
	authsvc "github.com/harshsahu0030/chat-app-backend/internal/svc/auth"
)

type loginRoute struct {
	Ctx global.Context
}

func newLogin(gCtx global.Context) rest.Route {
	return &loginRoute{gCtx}
}

func (r *loginRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:    "/login",
		Method: rest.POST,
		Middleware: []rest.Middleware{
			middleware.RateLimit(r.Ctx, "auth-login", 10, time.Minute),
		},
	}
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *loginRoute) Handler(ctx *rest.Ctx) rest.APIError {
	body := loginBody{}
	if err := ctx.BindJSON(&body); err != nil {
		return err
	}

	body.Email = strings.TrimSpace(strings.ToLower(body.Email))
	if body.Email == "" || body.Password == "" {
		return errors.ErrEmptyField()
	}

	user, err := r.Ctx.Inst().Query.UserByEmail(ctx, body.Email)
	if err != nil {
		// Do not reveal whether the account exists
		return errors.ErrUnauthorized().SetDetail("invalid credentials")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)) != nil {
		return errors.ErrUnauthorized().SetDetail("invalid credentials")
	}

	token, expireAt, tErr := r.Ctx.Inst().Auth.CreateAccessToken(user)
	if tErr != nil {
		return errors.ErrInternalServerError().SetDetail(tErr.Error())
	}

	cookie := r.Ctx.Inst().Auth.Cookie(authsvc.COOKIE_AUTH, token, time.Until(expireAt))
	defer fasthttp.ReleaseCookie(cookie)
	ctx.Response.Header.SetCookie(cookie)

	return ctx.JSON(rest.OK, &tokenResponse{
		Token: token,
		User:  r.Ctx.Inst().Modelizer.User(user),
	})
}
