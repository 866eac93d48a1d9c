package httpx

import (
	"net/http"

	"github.com/aussiebroadwan/notes/pkg/slogx"
)

// RequireUser only lets requests through that carry a user id in their
// context. Everything else is handed to denied, or answered with 401 when
// denied is nil.
func RequireUser(denied http.Handler) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := UserIDFromContext(r.Context()); ok {
				next.ServeHTTP(w, r)
				return
			}

			slogx.FromContext(r.Context()).Debug("request without user reached protected route")
			if denied != nil {
				denied.ServeHTTP(w, r)
				return
			}
			NoCache(w)
			w.WriteHeader(http.StatusUnauthorized)
		})
	}
}
