package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgAuth "github.com/angelmondragon/planfinderz-storefront/pkg/auth"
	"github.com/angelmondragon/planfinderz-storefront/pkg/config"
)

func TestOptionalAuthAnonymous(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "planfinderz"}
	var shopper, bearer string
	handler := OptionalAuth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		shopper = ShopperIDFromContext(r.Context())
		bearer = BearerFromContext(r.Context())
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || shopper != "" || bearer != "" {
		t.Fatalf("expected anonymous passthrough, got %d %q %q", rec.Code, shopper, bearer)
	}
}

func TestOptionalAuthValidToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "planfinderz"}
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), time.Hour, pkgAuth.AccessTokenPayload{ShopperID: "shopper-1"})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	var shopper, bearer string
	handler := OptionalAuth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		shopper = ShopperIDFromContext(r.Context())
		bearer = BearerFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if shopper != "shopper-1" || bearer != token {
		t.Fatalf("unexpected identity %q %q", shopper, bearer)
	}
}

func TestOptionalAuthInvalidToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "planfinderz"}
	handler := OptionalAuth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not run")
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestOptionalAuthForwardsTokenWithoutSecret(t *testing.T) {
	var bearer, shopper string
	handler := OptionalAuth(config.JWTConfig{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bearer = BearerFromContext(r.Context())
		shopper = ShopperIDFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer opaque-token")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if bearer != "opaque-token" || shopper != "" {
		t.Fatalf("expected forwarded token only, got %q %q", bearer, shopper)
	}
}

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithBearer(req.Context(), "token"))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}
