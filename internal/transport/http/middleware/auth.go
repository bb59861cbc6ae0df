package middleware

import (
	"context"
	"net/http"
	"strings"

	"paydesk/internal/domain/auth"
	"paydesk/internal/requestctx"
	"paydesk/internal/transport/http/api"
)

// TokenParser verifies a session token.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// RequireAuth rejects requests without a valid bearer session token and
// stores the signed-in username in the context.
func RequireAuth(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}
			claims, err := tokens.Parse(token)
			if err != nil {
				api.Fail(w, http.StatusUnauthorized, "invalid_token", "session token is invalid or expired", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r.WithContext(requestctx.WithUser(r.Context(), claims.Username)))
		})
	}
}

func GetUser(ctx context.Context) (string, bool) {
	return requestctx.GetUser(ctx)
}

func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
