package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/planfinderz-storefront/pkg/config"
)

func cartConfig() config.CartConfig {
	return config.CartConfig{SessionTTL: time.Hour, CookieName: "pf_cart", CookieSecure: true}
}

func TestCartSessionIssuesCookie(t *testing.T) {
	var sessionID string
	handler := CartSession(cartConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID = SessionIDFromContext(r.Context())
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if _, err := uuid.Parse(sessionID); err != nil {
		t.Fatalf("expected uuid session, got %q", sessionID)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != "pf_cart" || c.Value != sessionID || !c.HttpOnly || !c.Secure || c.MaxAge != 3600 {
		t.Fatalf("unexpected cookie %+v", c)
	}
}

func TestCartSessionReusesValidCookie(t *testing.T) {
	existing := uuid.NewString()
	var sessionID string
	handler := CartSession(cartConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID = SessionIDFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "pf_cart", Value: existing})
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if sessionID != existing {
		t.Fatalf("expected %s, got %s", existing, sessionID)
	}
}

func TestCartSessionReplacesMalformedCookie(t *testing.T) {
	var sessionID string
	handler := CartSession(cartConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID = SessionIDFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "pf_cart", Value: "../../etc"})
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if sessionID == "../../etc" || sessionID == "" {
		t.Fatalf("expected a fresh session, got %q", sessionID)
	}
}
