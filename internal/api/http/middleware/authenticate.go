package middleware

import (
	"net/http"
	"strings"

	"github.com/mbeier/famsync/internal/logger"
)

// TokenParser resolves a username from bearer tokens.
type TokenParser interface {
	Parse(token string) (string, error)
}

// Authenticate validates bearer tokens and injects the username into the
// request context.
type Authenticate struct {
	tokens TokenParser
	logger *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokens TokenParser, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokens: tokens, logger: logger}
}

// Handler parses the Authorization header, validates the token and passes the
// request on with the username in context. Requests without a valid token get
// 401.
func (m *Authenticate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if tokenString == "" {
			http.Error(w, "missing authorization token", http.StatusUnauthorized)
			return
		}

		username, err := m.tokens.Parse(tokenString)
		if err != nil {
			m.logger.Debug("rejected invalid session token", "error", err.Error())
			http.Error(w, "invalid authorization token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUsername(r.Context(), username)))
	})
}
