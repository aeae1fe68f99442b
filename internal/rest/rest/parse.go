package rest

import (
	"strconv"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshsahu0030/chat-app-backend/data/model"
	"github.com/harshsahu0030/chat-app-backend/internal/errors"
)

type Param struct {
	v interface{}
}

func (c *Ctx) UserValue(key Key) *Param {
	return &Param{c.RequestCtx.UserValue(string(key))}
}

func (c *Ctx) QueryValue(key string) *Param {
	args := c.RequestCtx.QueryArgs()
	if !args.Has(key) {
		return &Param{}
	}

	return &Param{string(args.Peek(key))}
}

// String returns a string value of the param
func (p *Param) String() (string, bool) {
	if p.v == nil {
		return "", false
	}
	var s string
	switch t := p.v.(type) {
	case string:
		s = t
	default:
		return "", false
	}

	return s, true
}

// Int parses the param into an int
func (p *Param) Int() (int, error) {
	s, ok := p.String()
	if !ok {
		return 0, errors.ErrEmptyField()
	}

	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.ErrBadRequest().SetDetail(err.Error())
	}
	return i, nil
}

// Bool parses the param into a bool
func (p *Param) Bool() bool {
	s, _ := p.String()
	return s == "true" || s == "1"
}

// ObjectID parses the param into an Object ID
func (p *Param) ObjectID() (primitive.ObjectID, error) {
	s, _ := p.String()
	if s == "" || !primitive.IsValidObjectID(s) {
		return primitive.NilObjectID, errors.ErrBadObjectID()
	}

	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, errors.ErrBadObjectID().SetDetail(err.Error())
	}
	return oid, nil
}

func (p *Param) User() *model.User {
	var u *model.User
	switch t := p.v.(type) {
	case *model.User:
		u = t
	default:
		return nil
	}
	return u
}
