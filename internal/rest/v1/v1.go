package v1

import (
	"github.com/harshsahu0030/chat-app-backend/internal/global"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/rest"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/v1/routes"
)

func API(gCtx global.Context, router *rest.Router) rest.Route {
	return routes.New(gCtx)
}
