package auth

import (
	"net/http"
	"strings"

	"github.com/lucero-pos/lucero-pos/internal/shared"
)

// Middleware resolves the Authorization bearer token and stamps the actor
// into the request metadata. Requests without a valid token pass through
// anonymously; handlers that require identity enforce it themselves.
func Middleware(service *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if value, ok := strings.CutPrefix(header, "Bearer "); ok {
				if token, err := service.Resolve(r.Context(), value); err == nil {
					meta := shared.RequestMetaFromContext(r.Context())
					meta.Actor = token.Username
					r = r.WithContext(shared.ContextWithRequestMeta(r.Context(), meta))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects requests whose context carries no actor.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shared.RequestMetaFromContext(r.Context()).Actor == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"title":"Unauthorized","status":401}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
