package users

import (
	"strings"

	"github.com/harshsahu0030/chat-app-backend/data/mutate"
	"github.com/harshsahu0030/chat-app-backend/internal/errors"
	"github.com/harshsahu0030/chat-app-backend/internal/global"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/middleware"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/rest"
)

type meRoute struct {
	Ctx global.Context
}

func newMe(gCtx global.Context) rest.Route {
	return &meRoute{gCtx}
}

func (r *meRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:    "/@me",
		Method: rest.GET,
		Middleware: []rest.Middleware{
			middleware.Auth(r.Ctx),
		},
	}
}

func (r *meRoute) Handler(ctx *rest.Ctx) rest.APIError {
	actor, ok := ctx.GetActor()
	if !ok {
		return errors.ErrUnauthorized()
	}

	return ctx.JSON(rest.OK, r.Ctx.Inst().Modelizer.User(*actor))
}

type updateMeRoute struct {
	Ctx global.Context
}

func newUpdateMe(gCtx global.Context) rest.Route {
	return &updateMeRoute{gCtx}
}

func (r *updateMeRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:    "/@me",
		Method: rest.PATCH,
		Middleware: []rest.Middleware{
			middleware.Auth(r.Ctx),
		},
	}
}

type updateMeBody struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

func (r *updateMeRoute) Handler(ctx *rest.Ctx) rest.APIError {
	actor, ok := ctx.GetActor()
	if !ok {
		return errors.ErrUnauthorized()
	}

	body := updateMeBody{}
	if err := ctx.BindJSON(&body); err != nil {
		return err
	}

	body.Name = strings.TrimSpace(body.Name)
	body.Username = strings.TrimSpace(strings.ToLower(body.Username))

	if body.Name == "" && body.Username == "" {
		return errors.ErrEmptyField()
	}

	if err := r.Ctx.Inst().Mutate.UpdateUserProfile(ctx, actor.ID, mutate.UpdateUserProfileOptions{
		Name:     body.Name,
		Username: body.Username,
	}); err != nil {
		return err
	}

	// Echo the applied change, no need to read the document back
	user := *actor
	if body.Name != "" {
		user.Name = body.Name
	}

	if body.Username != "" {
		user.Username = body.Username
	}

	return ctx.JSON(rest.OK, r.Ctx.Inst().Modelizer.User(user))
}
