package remoteapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/angelmondragon/planfinderz-storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/planfinderz-storefront/pkg/errors"
)

func newTestClient(t *testing.T, srv *httptest.Server, failures uint32) *Client {
	t.Helper()
	client, err := NewWithHTTPClient(config.CatalogConfig{
		APIURL:          srv.URL + "/api",
		BreakerFailures: failures,
		BreakerTimeout:  time.Minute,
	}, srv.Client(), nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestGetJSONDecodesAndForwardsBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/orders/my-orders" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("unexpected authorization %q", got)
		}
		_, _ = w.Write([]byte(`[{"id":"o1"}]`))
	}))
	defer srv.Close()

	var out []map[string]string
	if err := newTestClient(t, srv, 3).GetJSON(context.Background(), "/orders/my-orders", "tok-1", &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0]["id"] != "o1" {
		t.Fatalf("unexpected decode %v", out)
	}
}

func TestGetRawKeepsQueryString(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("limit") != "500" {
			t.Errorf("query not forwarded: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	body, err := newTestClient(t, srv, 3).GetRaw(context.Background(), "/products?limit=500", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != "[]" {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestNon2xxReturnsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, 3).GetRaw(context.Background(), "/products/9", "")
	if StatusCode(err) != http.StatusNotFound {
		t.Fatalf("expected 404 status error, got %v", err)
	}
}

func TestBreakerOpensOnServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newTestClient(t, srv, 2)
	for i := 0; i < 2; i++ {
		if _, err := client.GetRaw(context.Background(), "/products", ""); StatusCode(err) != http.StatusBadGateway {
			t.Fatalf("call %d: expected 502, got %v", i, err)
		}
	}

	_, err := client.GetRaw(context.Background(), "/products", "")
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error from open breaker, got %v", err)
	}
	if hits.Load() != 2 {
		t.Fatalf("open breaker should not reach the server, hits=%d", hits.Load())
	}
}

func TestClientErrorsDoNotTripBreaker(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := newTestClient(t, srv, 1)
	for i := 0; i < 3; i++ {
		if _, err := client.GetRaw(context.Background(), "/orders/my-orders", "bad"); StatusCode(err) != http.StatusUnauthorized {
			t.Fatalf("call %d: expected 401, got %v", i, err)
		}
	}
	if hits.Load() != 3 {
		t.Fatalf("expected every call to reach the server, hits=%d", hits.Load())
	}
}

func TestPostJSONSendsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		raw, _ := io.ReadAll(r.Body)
		var payload map[string]string
		if err := json.Unmarshal(raw, &payload); err != nil || payload["name"] != "Ada" {
			t.Errorf("unexpected payload %s", raw)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"inq-1"}`))
	}))
	defer srv.Close()

	var out struct {
		ID string `json:"id"`
	}
	if err := newTestClient(t, srv, 3).PostJSON(context.Background(), "/inquiries", "", map[string]string{"name": "Ada"}, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ID != "inq-1" {
		t.Fatalf("unexpected response %+v", out)
	}
}

func TestNewRejectsRelativeURL(t *testing.T) {
	if _, err := NewWithHTTPClient(config.CatalogConfig{APIURL: "/api"}, nil, nil); err == nil {
		t.Fatalf("expected relative url to be rejected")
	}
}
