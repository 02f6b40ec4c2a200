package middleware

import (
	"net/http"

	"studio-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"
)

// Actor reads the authenticated identity injected by the upstream gateway.
// Authentication itself is outside this service; requests arriving without
// the identity headers are rejected.
func Actor(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawID := r.Header.Get(headerUserID)
			role := r.Header.Get(headerUserRole)

			userID, err := uuid.Parse(rawID)
			if err != nil || role == "" {
				log.Warn("Request without valid actor identity",
					zap.String("path", r.URL.Path),
					zap.String("role", role),
				)
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if role != "artist" && role != "studio" {
				utils.ResponseUnauthorized(w, "Unknown actor role")
				return
			}

			ctx := utils.SetUserContext(r.Context(), userID, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
