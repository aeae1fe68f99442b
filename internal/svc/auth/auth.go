package auth

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshsahu0030/chat-app-backend/data/model"
	"github.com/harshsahu0030/chat-app-backend/data/query"
	"github.com/harshsahu0030/chat-app-backend/internal/errors"
)

const (
	COOKIE_AUTH = "chat-auth"

	accessTokenTTL = time.Hour * 24 * 30
	emailTokenTTL  = time.Minute * 30
)

type Authorizer interface {
	SignJWT(claim jwt.Claims) (string, error)
	VerifyJWT(token []string, out jwt.Claims) (*jwt.Token, error)

	// CreateAccessToken issues the bearer credential carried by both REST
	// requests and websocket handshakes.
	CreateAccessToken(user model.User) (string, time.Time, error)

	// CreateEmailToken issues a short-lived single-purpose token embedded in
	// verification and password-reset links.
	CreateEmailToken(userID string, purpose EmailTokenPurpose) (string, error)
	VerifyEmailToken(token string, purpose EmailTokenPurpose) (string, errors.APIError)

	// Authenticate resolves a raw credential to the user it was issued for.
	// It runs to completion before any connection is admitted to the
	// presence registry; failures reject the connection with no state
	// mutated.
	Authenticate(ctx context.Context, token string) (model.User, errors.APIError)

	Cookie(key string, token string, duration time.Duration) *fasthttp.Cookie
}

type authorizer struct {
	jwtSecret string
	domain    string
	secure    bool
	query     *query.Query
}

type AuthorizerOptions struct {
	JWTSecret string
	Domain    string
	Secure    bool
	Query     *query.Query
}

func New(opt AuthorizerOptions) Authorizer {
	return &authorizer{
		jwtSecret: opt.JWTSecret,
		domain:    opt.Domain,
		secure:    opt.Secure,
		query:     opt.Query,
	}
}

func (a *authorizer) CreateAccessToken(user model.User) (string, time.Time, error) {
	expireAt := time.Now().Add(accessTokenTTL)

	token, err := a.SignJWT(&JWTClaimUser{
		UserID:       user.ID.Hex(),
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expireAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})

	return token, expireAt, err
}

func (a *authorizer) Authenticate(ctx context.Context, token string) (model.User, errors.APIError) {
	var user model.User

	if token == "" {
		return user, errors.ErrUnauthorized().SetDetail("no token provided")
	}

	claims := &JWTClaimUser{}

	if _, err := a.VerifyJWT(strings.Split(token, "."), claims); err != nil {
		return user, errors.ErrUnauthorized().SetDetail(err.Error())
	}

	if claims.UserID == "" {
		return user, errors.ErrUnauthorized().SetDetail("bad token")
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return user, errors.ErrUnauthorized().SetDetail(err.Error())
	}

	user, qErr := a.query.UserByID(ctx, userID)
	if qErr != nil {
		return user, errors.ErrUnauthorized().SetDetail("token does not resolve to a user")
	}

	if user.TokenVersion != claims.TokenVersion {
		return user, errors.ErrUnauthorized().SetDetail("token version mismatch")
	}

	return user, nil
}

func (a *authorizer) Cookie(key string, token string, duration time.Duration) *fasthttp.Cookie {
	cookie := fasthttp.AcquireCookie()
	cookie.SetKey(key)
	cookie.SetValue(token)
	cookie.SetDomain(a.domain)
	cookie.SetPath("/")
	cookie.SetExpire(time.Now().Add(duration))
	cookie.SetHTTPOnly(true)
	cookie.SetSecure(a.secure)
	cookie.SetSameSite(fasthttp.CookieSameSiteNoneMode)

	return cookie
}
