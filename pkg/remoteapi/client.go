package remoteapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/angelmondragon/planfinderz-storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/planfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/planfinderz-storefront/pkg/logger"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxResponseBytes = 8 << 20

// StatusError reports a non-2xx answer from the remote API.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote api %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// StatusCode extracts the remote status from err, or 0 when err is not a StatusError.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

// Client calls the remote product / order / inquiry API. Every call runs
// through one circuit breaker so a failing upstream is shed quickly.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// New builds a client with a traced transport and the configured timeout.
func New(cfg config.CatalogConfig, logg *logger.Logger) (*Client, error) {
	httpClient := &http.Client{
		Timeout:   cfg.RequestTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	return NewWithHTTPClient(cfg, httpClient, logg)
}

// NewWithHTTPClient builds a client around the supplied http.Client.
func NewWithHTTPClient(cfg config.CatalogConfig, httpClient *http.Client, logg *logger.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(cfg.APIURL))
	if err != nil {
		return nil, fmt.Errorf("parsing remote api url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("remote api url %q must be absolute", cfg.APIURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	settings := gobreaker.Settings{
		Name:    "remote-api",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			code := StatusCode(err)
			return code >= 400 && code < 500
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logg == nil {
				return
			}
			ctx := logg.WithFields(context.Background(), map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
			logg.Warn(ctx, "remoteapi.breaker.state_change")
		},
	}

	return &Client{
		baseURL: base,
		http:    httpClient,
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
	}, nil
}

// GetRaw fetches path and returns the undecoded body.
func (c *Client) GetRaw(ctx context.Context, path, bearer string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, bearer, nil)
}

// GetJSON fetches path and decodes the body into dest.
func (c *Client) GetJSON(ctx context.Context, path, bearer string, dest any) error {
	body, err := c.GetRaw(ctx, path, bearer)
	if err != nil {
		return err
	}
	if dest == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode remote api response")
	}
	return nil
}

// PostJSON encodes payload, posts it to path and decodes the answer into dest when non-nil.
func (c *Client) PostJSON(ctx context.Context, path, bearer string, payload, dest any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode remote api request")
	}
	body, err := c.do(ctx, http.MethodPost, path, bearer, encoded)
	if err != nil {
		return err
	}
	if dest == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode remote api response")
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path, bearer string, payload []byte) ([]byte, error) {
	if c == nil || c.breaker == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "remote api client not configured")
	}
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.roundTrip(ctx, method, path, bearer, payload)
	})
	if err == nil {
		return body, nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remote api temporarily unavailable")
	}
	return nil, err
}

func (c *Client) roundTrip(ctx context.Context, method, path, bearer string, payload []byte) ([]byte, error) {
	target := c.resolve(path)

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build remote api request")
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := strings.TrimSpace(bearer); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("remote api %s %s failed after %s", method, path, time.Since(start).Round(time.Millisecond)))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read remote api response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       truncate(string(body), 512),
		}
	}
	return body, nil
}

func (c *Client) resolve(path string) string {
	ref, err := url.Parse(path)
	if err != nil || ref.Path == "" {
		return c.baseURL.JoinPath(path).String()
	}
	resolved := c.baseURL.JoinPath(ref.Path)
	resolved.RawQuery = ref.RawQuery
	return resolved.String()
}

func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if len(value) <= limit {
		return value
	}
	return value[:limit]
}
