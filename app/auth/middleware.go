package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/manukanwetan/umkm-api/app/api"
	"github.com/manukanwetan/umkm-api/models"
)

type contextKey struct{}

// UserProvider loads the account a verified token refers to.
type UserProvider interface {
	GetByID(id string) (*models.User, error)
}

// Middleware guards routes with bearer-token authentication.
type Middleware struct {
	tokens *Tokens
	users  UserProvider
}

func NewMiddleware(tokens *Tokens, users UserProvider) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// Require wraps a handler so it only runs for requests carrying a valid
// token for an existing account. The account is attached to the request
// context for the handler to read via FromContext.
func (m *Middleware) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			api.Message(w, http.StatusUnauthorized, "invalid token")
			return
		}

		id, err := m.tokens.Parse(token)
		if err != nil {
			api.Message(w, http.StatusUnauthorized, "invalid token")
			return
		}

		user, err := m.users.GetByID(id)
		if err != nil {
			if errors.Is(err, models.ErrUserNotFound) {
				api.Message(w, http.StatusUnauthorized, "invalid token")
				return
			}
			api.Message(w, http.StatusInternalServerError, "server error")
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, user)))
	}
}

// FromContext returns the authenticated account attached by Require.
func FromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(contextKey{}).(*models.User)
	return user, ok
}
