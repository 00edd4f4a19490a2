package middleware

import (
	"log"
	"net/http"

	"twibbon-campaign/service"
)

// SessionParser validates admin session tokens
type SessionParser interface {
	ParseSession(token string) error
}

// RequireAdmin rejects requests without a valid admin session cookie
func RequireAdmin(sessions SessionParser, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(service.SessionCookieName)
		if err != nil {
			unauthorized(w)
			return
		}
		if err := sessions.ParseSession(cookie.Value); err != nil {
			log.Printf("⚠️  Rejected admin request %s %s: %v", r.Method, r.URL.Path, err)
			unauthorized(w)
			return
		}
		next(w, r)
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"Unauthorized"}`))
}
