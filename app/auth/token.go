// Package auth issues and verifies the signed bearer tokens protecting
// the admin routes, and provides the middleware that attaches the
// authenticated account to the request context.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: bad signature,
// wrong algorithm, expired token, missing subject claim.
var ErrInvalidToken = errors.New("invalid token")

// Tokens signs and parses HS256 tokens carrying the account id and an
// expiry claim.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given account id.
func (t *Tokens) Issue(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  userID,
		"exp": time.Now().Add(t.ttl).Unix(),
	})
	return token.SignedString(t.secret)
}

// Parse verifies the token and returns the account id it carries.
func (t *Tokens) Parse(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	id, ok := claims["id"].(string)
	if !ok || id == "" {
		return "", ErrInvalidToken
	}
	return id, nil
}
