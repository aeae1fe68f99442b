package routes

import (
	"github.com/harshsahu0030/chat-app-backend/internal/global"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/rest"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/v1/routes/auth"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/v1/routes/chats"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/v1/routes/friends"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/v1/routes/users"
)

type Route struct {
	Ctx global.Context
}

func New(gCtx global.Context) rest.Route {
	return &Route{gCtx}
}

func (r *Route) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:    "/v1" + r.Ctx.Config().Http.VersionSuffix,
		Method: rest.GET,
		Children: []rest.Route{
			auth.New(r.Ctx),
			users.New(r.Ctx),
			friends.New(r.Ctx),
			chats.New(r.Ctx),
		},
	}
}

func (r *Route) Handler(ctx *rest.Ctx) rest.APIError {
	return ctx.JSON(rest.OK, &Response{
		Online: true,
	})
}

type Response struct {
	Online bool `json:"online"`
}
