package middleware

import (
	"net/http"
	"strings"

	"github.com/artvia/artvia-backend/pkg/logger"
)

const userIDHeader = "X-User-Id"

// Identity lifts the caller's user id from the X-User-Id header into
// the request context. The gallery has no credential flow; endpoints
// that need identity reject requests where the header was absent.
func Identity(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := strings.TrimSpace(r.Header.Get(userIDHeader))
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithUserID(r.Context(), userID)
			if logg != nil {
				ctx = logg.WithUserID(ctx, userID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
