package auth

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// Middleware rejects requests whose Authorization header does not carry a
// valid one-time code: 401 when the header is missing, 403 when the code
// does not validate.
func Middleware(secret string, skew uint) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("Authorization")
			if token == "" {
				log.Warn().Str("path", r.URL.Path).Msg("Authorization required but not provided")
				writeError(w, http.StatusUnauthorized, "Authorization required but not provided")
				return
			}
			if !ValidateToken(secret, token, skew) {
				log.Warn().Str("path", r.URL.Path).Msg("Authorization failed")
				writeError(w, http.StatusForbidden, "Authorization failed")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, code int, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write([]byte(`{"status":"error","reason":"` + reason + `"}`))
}
