package rest

import (
	"encoding/json"

	"github.com/valyala/fasthttp"

	"github.com/harshsahu0030/chat-app-backend/data/model"
	"github.com/harshsahu0030/chat-app-backend/internal/errors"
)

type Ctx struct {
	*fasthttp.RequestCtx
}

func (c *Ctx) JSON(status HttpStatusCode, v interface{}) APIError {
	b, err := json.Marshal(v)
	if err != nil {
		c.SetStatusCode(InternalServerError)
		return errors.ErrInternalServerError().
			SetDetail("JSON Parsing Failed").
			SetFields(errors.Fields{"JSON_ERROR": err.Error()})
	}

	c.SetStatusCode(status)
	c.SetContentType("application/json")
	c.SetBody(b)
	return nil
}

func (c *Ctx) BindJSON(v interface{}) APIError {
	if err := json.Unmarshal(c.Request.Body(), v); err != nil {
		return errors.ErrBadRequest().SetDetail("invalid request body: %s", err.Error())
	}

	return nil
}

func (c *Ctx) SetStatusCode(code HttpStatusCode) {
	c.RequestCtx.SetStatusCode(int(code))
}

func (c *Ctx) StatusCode() HttpStatusCode {
	return HttpStatusCode(c.RequestCtx.Response.StatusCode())
}

// Set the current authenticated user
func (c *Ctx) SetActor(u *model.User) {
	c.SetUserValue(string(AuthUserKey), u)
}

// Get the current authenticated user
func (c *Ctx) GetActor() (*model.User, bool) {
	v := c.UserValue(AuthUserKey).User()
	return v, v != nil
}
