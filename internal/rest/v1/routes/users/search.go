package users

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshsahu0030/chat-app-backend/data/model"
	"github.com/harshsahu0030/chat-app-backend/data/query"
	"github.com/harshsahu0030/chat-app-backend/internal/errors"
	"github.com/harshsahu0030/chat-app-backend/internal/global"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/middleware"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/rest"
)

type searchRoute struct {
	Ctx global.Context
}

func newSearch(gCtx global.Context) rest.Route {
	return &searchRoute{gCtx}
}

func (r *searchRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:    "/search",
		Method: rest.GET,
		Middleware: []rest.Middleware{
			middleware.Auth(r.Ctx),
		},
	}
}

func (r *searchRoute) Handler(ctx *rest.Ctx) rest.APIError {
	actor, ok := ctx.GetActor()
	if !ok {
		return errors.ErrUnauthorized()
	}

	keyword, _ := ctx.QueryValue("q").String()
	keyword = strings.TrimSpace(keyword)

	page, err := ctx.QueryValue("page").Int()
	if err != nil || page < 1 {
		page = 1
	}

	limits := r.Ctx.Config().Limits
	if page > limits.MaxPage {
		page = limits.MaxPage
	}

	users, total, qErr := r.Ctx.Inst().Query.SearchUsers(ctx, query.SearchUsersOptions{
		Keyword: keyword,
		Exclude: []primitive.ObjectID{actor.ID},
		Page:    page,
		Limit:   limits.ResultsPerPage,
	})
	if qErr != nil {
		return qErr
	}

	result := make([]model.UserPartialModel, len(users))
	for i, u := range users {
		result[i] = r.Ctx.Inst().Modelizer.UserPartial(u)
	}

	return ctx.JSON(rest.OK, &searchResponse{
		Total: total,
		Page:  page,
		Users: result,
	})
}

type searchResponse struct {
	Total int64                    `json:"total"`
	Page  int                      `json:"page"`
	Users []model.UserPartialModel `json:"users"`
}
