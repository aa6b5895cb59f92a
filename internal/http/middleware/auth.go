package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"facegateway/internal/util"
)

type contextKeyUserID struct{}

// UserID returns the id set by RequireAuth, or "".
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(contextKeyUserID{}).(string)
	return id
}

// RequireAuth cek Authorization: Bearer <jwt>. Token diterbitkan service lain,
// di sini cuma diverifikasi pakai secret yang sama.
func RequireAuth(secret string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
				unauthorized(w, "missing bearer token")
				return
			}

			userID, err := util.ParseAccessToken(secret, strings.TrimSpace(parts[1]))
			if err != nil {
				log.WarnContext(r.Context(), "invalid bearer token", "request_id", RequestID(r.Context()))
				unauthorized(w, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyUserID{}, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"message":"` + msg + `"}`))
}
