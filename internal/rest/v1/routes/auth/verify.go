package auth

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshsahu0030/chat-app-backend/internal/errors"
	"github.com/harshsahu0030/chat-app-backend/internal/global"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/rest"
	authsvc "github.com/harshsahu0030/chat-app-backend/internal/svc/auth"
)

type verifyEmailRoute struct {
	Ctx global.Context
}

func newVerifyEmail(gCtx global.Context) rest.Route {
	return &verifyEmailRoute{gCtx}
}

func (r *verifyEmailRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:    "/verify-email",
		Method: rest.POST,
	}
}

type verifyEmailBody struct {
	Token string `json:"token"`
}

func (r *verifyEmailRoute) Handler(ctx *rest.Ctx) rest.APIError {
	body := verifyEmailBody{}
	if err := ctx.BindJSON(&body); err != nil {
		return err
	}

	userID, err := r.Ctx.Inst().Auth.VerifyEmailToken(body.Token, authsvc.EmailTokenPurposeVerify)
	if err != nil {
		return err
	}

	oid, oErr := primitive.ObjectIDFromHex(userID)
	if oErr != nil {
		return errors.ErrBadObjectID()
	}

	if err = r.Ctx.Inst().Mutate.SetUserVerified(ctx, oid); err != nil {
		return err
	}

	return ctx.JSON(rest.OK, &verifyEmailResponse{Verified: true})
}

type verifyEmailResponse struct {
	Verified bool `json:"verified"`
}
