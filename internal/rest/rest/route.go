package rest

import (
	"net/http"

	"github.com/fasthttp/router"

	"github.com/harshsahu0030/chat-app-backend/internal/errors"
)

type Route interface {
	Config() RouteConfig
	Handler(ctx *Ctx) APIError
}

type Router = router.Router

type RouteConfig struct {
	URI        string
	Method     RouteMethod
	Children   []Route
	Middleware []Middleware
}

type RouteMethod string

const (
	GET     RouteMethod = "GET"
	POST    RouteMethod = "POST"
	PUT     RouteMethod = "PUT"
	PATCH   RouteMethod = "PATCH"
	DELETE  RouteMethod = "DELETE"
	OPTIONS RouteMethod = "OPTIONS"
)

type Middleware = func(ctx *Ctx) APIError

type APIError = errors.APIError

type APIErrorResponse struct {
	StatusCode HttpStatusCode         `json:"status_code"`
	Status     string                 `json:"status"`
	Error      string                 `json:"error"`
	ErrorCode  int                    `json:"error_code"`
	Details    map[string]interface{} `json:"details,omitempty"`
}

type HttpStatusCode int

const (
	OK        HttpStatusCode = 200
	Created   HttpStatusCode = 201
	NoContent HttpStatusCode = 204

	BadRequest      HttpStatusCode = 400
	Unauthorized    HttpStatusCode = 401
	Forbidden       HttpStatusCode = 403
	NotFound        HttpStatusCode = 404
	Conflict        HttpStatusCode = 409
	TooManyRequests HttpStatusCode = 429

	InternalServerError HttpStatusCode = 500
)

// String: return the http status code in text form
func (c HttpStatusCode) String() string {
	return http.StatusText(int(c))
}
