package auth

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/harshsahu0030/chat-app-backend/internal/errors"
	"github.com/harshsahu0030/chat-app-backend/internal/global"
	"github.com/harshsahu0030/chat-app-backend/internal/mail"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/middleware"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/rest"
	authsvc "github.com/harshsahu0030/chat-app-backend/internal/svc/auth"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/mq"
)

type forgotPasswordRoute struct {
	Ctx global.Context
}

func newForgotPassword(gCtx global.Context) rest.Route {
	return &forgotPasswordRoute{gCtx}
}

func (r *forgotPasswordRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:    "/forgot-password",
		Method: rest.POST,
		Middleware: []rest.Middleware{
			middleware.RateLimit(r.Ctx, "auth-forgot-password", 3, time.Minute*5),
		},
	}
}

type forgotPasswordBody struct {
	Email string `json:"email"`
}

func (r *forgotPasswordRoute) Handler(ctx *rest.Ctx) rest.APIError {
	body := forgotPasswordBody{}
	if err := ctx.BindJSON(&body); err != nil {
		return err
	}

	body.Email = strings.TrimSpace(strings.ToLower(body.Email))
	if body.Email == "" {
		return errors.ErrEmptyField().SetFields(errors.Fields{"field": "email"})
	}

	// The response is identical whether or not the account exists
	resp := &forgotPasswordResponse{Sent: true}

	user, err := r.Ctx.Inst().Query.UserByEmail(ctx, body.Email)
	if err != nil {
		return ctx.JSON(rest.OK, resp)
	}

	if r.Ctx.Inst().MQ == nil {
		return ctx.JSON(rest.OK, resp)
	}

	emailToken, tErr := r.Ctx.Inst().Auth.CreateEmailToken(user.ID.Hex(), authsvc.EmailTokenPurposeResetPassword)
	if tErr != nil {
		return errors.ErrInternalServerError().SetDetail(tErr.Error())
	}

	link := r.Ctx.Config().WebsiteURL + "/reset-password?token=" + emailToken

	if pErr := r.Ctx.Inst().MQ.PublishMailJob(mq.MailJob{
		To:      user.Email,
		Subject: "Reset your password",
		Text:    mail.ResetPasswordBody(user.Name, link),
	}); pErr != nil {
		zap.S().Errorw("auth, failed to publish password reset mail job",
			"user_id", user.ID.Hex(),
			"error", pErr,
		)
	}

	return ctx.JSON(rest.OK, resp)
}

type forgotPasswordResponse struct {
	Sent bool `json:"sent"`
}

type resetPasswordRoute struct {
	Ctx global.Context
}

func newResetPassword(gCtx global.Context) rest.Route {
	return &resetPasswordRoute{gCtx}
}

func (r *resetPasswordRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:    "/reset-password",
		Method: rest.POST,
	}
}

type resetPasswordBody struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (r *resetPasswordRoute) Handler(ctx *rest.Ctx) rest.APIError {
	body := resetPasswordBody{}
	if err := ctx.BindJSON(&body); err != nil {
		return err
	}

	if len(body.Password) < 8 {
		return errors.ErrValidationRejected().
			SetDetail("password must be at least 8 characters").
			SetFields(errors.Fields{"field": "password"})
	}

	userID, err := r.Ctx.Inst().Auth.VerifyEmailToken(body.Token, authsvc.EmailTokenPurposeResetPassword)
	if err != nil {
		return err
	}

	oid, oErr := primitive.ObjectIDFromHex(userID)
	if oErr != nil {
		return errors.ErrBadObjectID()
	}

	hash, hErr := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if hErr != nil {
		return errors.ErrInternalServerError().SetDetail(hErr.Error())
	}

	// Bumps the token version, invalidating every outstanding access token
	if err = r.Ctx.Inst().Mutate.SetUserPassword(ctx, oid, string(hash)); err != nil {
		return err
	}

	return ctx.JSON(rest.OK, &resetPasswordResponse{Reset: true})
}

type resetPasswordResponse struct {
	Reset bool `json:"reset"`
}
