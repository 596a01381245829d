package middleware

import (
	"net/http"
	"strings"

	"property-portal/internal/usecase"
	"property-portal/pkg/utils"

	"go.uber.org/zap"
)

// BearerClaims validates the bearer token and puts its claims on the request
// context. The claims are the session: no store read happens here.
func BearerClaims(tokens usecase.TokenService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			token := parts[1]

			claims, err := tokens.Parse(token)
			if err != nil {
				logger.Warn("Invalid or expired token", zap.Error(err))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx := usecase.WithClaims(r.Context(), claims)
			ctx = utils.SetAccountContext(ctx, claims.Subject, claims.Role)
			ctx = utils.SetTokenContext(ctx, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
