package middleware

import (
	"net/http"

	"potosi-be/internal/auth"
	"potosi-be/internal/logger"

	"go.uber.org/zap"
)

// Auth attaches the caller's identity when a valid access token is present.
// Checkout works for anonymous buyers, so a missing token passes through and
// only a token that is present but invalid is rejected.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := auth.ExtractAccessToken(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, tokenStr)
			if err != nil {
				logger.FromCtx(r.Context()).Warn("rejected access token",
					zap.String("layer", "middleware"),
					zap.Error(err),
				)
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			ctx := auth.WithIdentity(r.Context(), auth.Identity{
				UserID: claims.Subject,
				Email:  claims.Email,
				Role:   claims.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
