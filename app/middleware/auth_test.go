package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"twibbon-campaign/service"
)

type fakeSessions struct{ valid string }

func (f fakeSessions) ParseSession(token string) error {
	if token != f.valid {
		return service.ErrInvalidSession
	}
	return nil
}

func TestRequireAdmin(t *testing.T) {
	called := false
	h := RequireAdmin(fakeSessions{valid: "good"}, func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		cookie *http.Cookie
		want   int
	}{
		{"no cookie", nil, http.StatusUnauthorized},
		{"bad token", &http.Cookie{Name: service.SessionCookieName, Value: "forged"}, http.StatusUnauthorized},
		{"other cookie", &http.Cookie{Name: "session", Value: "good"}, http.StatusUnauthorized},
		{"valid", &http.Cookie{Name: service.SessionCookieName, Value: "good"}, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called = false
			req := httptest.NewRequest(http.MethodGet, "/admin/campaigns", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()
			h(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if called != (tt.want == http.StatusNoContent) {
				t.Errorf("handler called = %v", called)
			}
		})
	}

	if !errors.Is(fakeSessions{}.ParseSession("x"), service.ErrInvalidSession) {
		t.Fatal("fake must reject unknown tokens")
	}
}
