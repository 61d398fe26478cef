package middleware

import (
	"net/http"

	"github.com/bancarata/bankportal/internal/handlers/render"
	"github.com/bancarata/bankportal/internal/service/adminauth"
)

type authService interface {
	TokenFromRequest(r *http.Request) (string, error)
	Verify(token string) (adminauth.Claims, error)
}

// AuthMiddleware gates a handler on a valid auth-token cookie
func AuthMiddleware(as authService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := as.TokenFromRequest(r)
			if err != nil {
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if _, err := as.Verify(token); err != nil {
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
