package middleware

import (
	"net/http"
	"strings"

	"github.com/shashiranjanraj/giftwheels/pkg/auth"
	"github.com/shashiranjanraj/giftwheels/pkg/logger"
	"github.com/shashiranjanraj/giftwheels/pkg/response"
)

// Auth rejects requests without a valid admin bearer token and stores the
// session in the request context. With an empty secret admin access is
// switched off and every request gets a 403.
func Auth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(secret) == 0 {
				response.Error(w, http.StatusForbidden, "Admin access is disabled")
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				response.Unauthorized(w)
				return
			}

			session, err := auth.Validate(secret, strings.TrimSpace(token))
			if err != nil {
				logger.WithCtx(r.Context()).Debug("rejected admin token", "error", err)
				response.Error(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), session)))
		})
	}
}
