package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/harshsahu0030/chat-app-backend/internal/errors"
)

type JWTClaimUser struct {
	UserID       string  `json:"u"`
	TokenVersion float64 `json:"v"`

	jwt.RegisteredClaims
}

type EmailTokenPurpose string

const (
	EmailTokenPurposeVerify        EmailTokenPurpose = "verify"
	EmailTokenPurposeResetPassword EmailTokenPurpose = "reset_password"
)

type JWTClaimEmailToken struct {
	UserID  string `json:"u"`
	Purpose string `json:"p"`

	jwt.RegisteredClaims
}

func (a *authorizer) SignJWT(claim jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claim)

	return token.SignedString([]byte(a.jwtSecret))
}

func (a *authorizer) VerifyJWT(token []string, out jwt.Claims) (*jwt.Token, error) {
	result, err := jwt.ParseWithClaims(
		strings.Join(token, "."),
		out,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("bad jwt signing method, expected HMAC but got %v", t.Header["alg"])
			}

			return []byte(a.jwtSecret), nil
		},
	)

	return result, err
}

func (a *authorizer) CreateEmailToken(userID string, purpose EmailTokenPurpose) (string, error) {
	return a.SignJWT(&JWTClaimEmailToken{
		UserID:  userID,
		Purpose: string(purpose),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(emailTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
}

func (a *authorizer) VerifyEmailToken(token string, purpose EmailTokenPurpose) (string, errors.APIError) {
	claims := &JWTClaimEmailToken{}

	if _, err := a.VerifyJWT(strings.Split(token, "."), claims); err != nil {
		return "", errors.ErrUnauthorized().SetDetail(err.Error())
	}

	if claims.Purpose != string(purpose) || claims.UserID == "" {
		return "", errors.ErrUnauthorized().SetDetail("token purpose mismatch")
	}

	return claims.UserID, nil
}
