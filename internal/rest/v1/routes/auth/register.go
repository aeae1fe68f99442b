package auth

import (
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/harshsahu0030/chat-app-backend/data/model"
	"github.com/harshsahu0030/chat-app-backend/internal/errors"
	"github.com/harshsahu0030/chat-app-backend/internal/global"
	"github.com/harshsahu0030/chat-app-backend/internal/mail"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/middleware"
	"github.com/harshsahu0030/chat-app-backend/internal/rest/rest"
	authsvc "github.com/harshsahu0030/chat-app-backend/internal/svc/auth"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/mq"
)

type registerRoute struct {
	Ctx global.Context
}

func newRegister(gCtx global.Context) rest.Route {
	return &registerRoute{gCtx}
}

func (r *registerRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:    "/register",
		Method: rest.POST,
		Middleware: []rest.Middleware{
			middleware.RateLimit(r.Ctx, "auth-register", 5, time.Minute),
		},
	}
}

type registerBody struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *registerRoute) Handler(ctx *rest.Ctx) rest.APIError {
	body := registerBody{}
	if err := ctx.BindJSON(&body); err != nil {
		return err
	}

	body.Username = strings.TrimSpace(strings.ToLower(body.Username))
	body.Email = strings.TrimSpace(strings.ToLower(body.Email))
	body.Name = strings.TrimSpace(body.Name)

	switch {
	case body.Username == "":
		return errors.ErrEmptyField().SetFields(errors.Fields{"field": "username"})
	case body.Email == "" || !strings.Contains(body.Email, "@"):
		return errors.ErrValidationRejected().SetFields(errors.Fields{"field": "email"})
	case len(body.Password) < 8:
		return errors.ErrValidationRejected().
			SetDetail("password must be at least 8 characters").
			SetFields(errors.Fields{"field": "password"})
	}

	if body.Name == "" {
		body.Name = body.Username
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return errors.ErrInternalServerError().SetDetail(err.Error())
	}

	user := model.User{
		Username:  body.Username,
		Name:      body.Name,
		Email:     body.Email,
		Password:  string(hash),
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
		UpdatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}

	if err := r.Ctx.Inst().Mutate.CreateUser(ctx, &user); err != nil {
		return err
	}

	r.sendVerificationMail(user)

	token, expireAt, err := r.Ctx.Inst().Auth.CreateAccessToken(user)
	if err != nil {
		return errors.ErrInternalServerError().SetDetail(err.Error())
	}

	cookie := r.Ctx.Inst().Auth.Cookie(authsvc.COOKIE_AUTH, token, time.Until(expireAt))
	defer fasthttp.ReleaseCookie(cookie)
	ctx.Response.Header.SetCookie(cookie)

	return ctx.JSON(rest.Created, &tokenResponse{
		Token: token,
		User:  r.Ctx.Inst().Modelizer.User(user),
	})
}

type tokenResponse struct {
	Token string          `json:"token"`
	User  model.UserModel `json:"user"`
}

func (r *registerRoute) sendVerificationMail(user model.User) {
	if r.Ctx.Inst().MQ == nil {
		return
	}

	emailToken, err := r.Ctx.Inst().Auth.CreateEmailToken(user.ID.Hex(), authsvc.EmailTokenPurposeVerify)
	if err != nil {
		zap.S().Errorw("auth, failed to create email verification token",
			"user_id", user.ID.Hex(),
			"error", err,
		)

		return
	}

	link := r.Ctx.Config().WebsiteURL + "/verify-email?token=" + emailToken

	if err = r.Ctx.Inst().MQ.PublishMailJob(mq.MailJob{
		To:      user.Email,
		Subject: "Verify your email",
		Text:    mail.VerifyEmailBody(user.Name, link),
	}); err != nil {
		zap.S().Errorw("auth, failed to publish verification mail job",
			"user_id", user.ID.Hex(),
			"error", err,
		)
	}
}
