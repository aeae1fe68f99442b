package friends

import (
	"github.com/harshsahu0030/chat-app-backend/data/model"
	"github.com/harshsahu0030/chat-app-backend/internal/errors"
	"github.com/harshsahu0030/chat-app-backend/internal/global"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/middleware"
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
		URI:    "/friends",
		Method: rest.GET,
		Children: []rest.Route{
			newRequests(r.Ctx),
			newRequest(r.Ctx),
			newAccept(r.Ctx),
			newRemove(r.Ctx),
		},
		Middleware: []rest.Middleware{
			middleware.Auth(r.Ctx),
		},
	}
}

// List accepted friends
func (r *Route) Handler(ctx *rest.Ctx) rest.APIError {
	actor, ok := ctx.GetActor()
	if !ok {
		return errors.ErrUnauthorized()
	}

	relations, err := r.Ctx.Inst().Query.FriendsOf(ctx, actor.ID, model.FriendStatusAccepted)
	if err != nil {
		return err
	}

	return ctx.JSON(rest.OK, r.modelize(ctx, relations))
}

// modelize resolves the users referenced by the relations and converts
// everything to wire form.
func (r *Route) modelize(ctx *rest.Ctx, relations []model.Friend) []model.FriendModel {
	return modelizeRelations(r.Ctx, ctx, relations)
}
