package users

import (
	"github.com/harshsahu0030/chat-app-backend/internal/errors"
	"github.com/harshsahu0030/chat-app-backend/internal/global"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/rest"
)

type Route struct {
	Ctx global.Context
}

func New(gCtx global.Context) rest.Route {
	return &Route{gCtx}
}

func (r *Route) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:    "/users",
		Method: rest.GET,
		Children: []rest.Route{
			newMe(r.Ctx),
			newUpdateMe(r.Ctx),
			newAvatar(r.Ctx),
			newSearch(r.Ctx),
			newUser(r.Ctx),
		},
	}
}

func (r *Route) Handler(ctx *rest.Ctx) rest.APIError {
	return errors.ErrUnknownRoute()
}

type userRoute struct {
	Ctx global.Context
}

func newUser(gCtx global.Context) rest.Route {
	return &userRoute{gCtx}
}

func (r *userRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:    "/{user.id}",
		Method: rest.GET,
	}
}

func (r *userRoute) Handler(ctx *rest.Ctx) rest.APIError {
	userID, err := ctx.UserValue("user.id").ObjectID()
	if err != nil {
		return errors.From(err)
	}

	user, qErr := r.Ctx.Inst().Query.UserByID(ctx, userID)
	if qErr != nil {
		return qErr
	}

	return ctx.JSON(rest.OK, r.Ctx.Inst().Modelizer.UserPartial(user))
}
