package auth

import (
	"github.com/valyala/fasthttp"

	"github.com/harshsahu0030/chat-app-backend/internal/global"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/rest"
	authsvc "github.com/harshsahu0030/chat-app-backend/internal/svc/auth"
)

type logoutRoute struct {
	Ctx global.Context
}

func newLogout(gCtx global.Context) rest.Route {
	return &logoutRoute{gCtx}
}

func (r *logoutRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:    "/logout",
		Method: rest.POST,
	}
}

func (r *logoutRoute) Handler(ctx *rest.Ctx) rest.APIError {
	// Expire the auth cookie immediately
	cookie := r.Ctx.Inst().Auth.Cookie(authsvc.COOKIE_AUTH, "", 0)
	defer fasthttp.ReleaseCookie(cookie)
	ctx.Response.Header.SetCookie(cookie)

	return ctx.JSON(rest.OK, &logoutResponse{Success: true})
}

type logoutResponse struct {
	Success bool `json:"success"`
}
