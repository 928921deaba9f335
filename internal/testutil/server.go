package testutil

import (
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"sdchassis.be/web/internal/backend"
	"sdchassis.be/web/internal/handlers"
	"sdchassis.be/web/internal/httpserver"
)

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*serverOptions)

type serverOptions struct {
	cfg        httpserver.Config
	backendURL string
}

// WithBackendURL points the API client at an explicit base URL.
func WithBackendURL(url string) ServerOption {
	return func(o *serverOptions) {
		o.backendURL = url
	}
}

// WithBackend wires a custom backend implementation, bypassing HTTP.
func WithBackend(b handlers.Backend) ServerOption {
	return func(o *serverOptions) {
		o.cfg.Backend = b
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *zap.Logger) ServerOption {
	return func(o *serverOptions) {
		o.cfg.Logger = logger
	}
}

// WithPreviewSize overrides the home-page preview length.
func WithPreviewSize(n int) ServerOption {
	return func(o *serverOptions) {
		o.cfg.PreviewSize = n
	}
}

// WithBaseURL sets the absolute site URL used for canonical links.
func WithBaseURL(url string) ServerOption {
	return func(o *serverOptions) {
		o.cfg.BaseURL = url
	}
}

// NewServer constructs an httptest server running the site HTTP stack. Without a backend
// option a stub API with Fixtures is started.
func NewServer(t testing.TB, opts ...ServerOption) *httptest.Server {
	t.Helper()

	o := serverOptions{cfg: httpserver.Config{Address: ":0"}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.cfg.Backend == nil {
		if o.backendURL == "" {
			o.backendURL = NewBackend(t).BaseURL()
		}
		client, err := backend.NewClient(o.backendURL, backend.WithTimeout(5*time.Second))
		if err != nil {
			t.Fatalf("backend client: %v", err)
		}
		o.cfg.Backend = client
	}

	srv, err := httpserver.New(o.cfg)
	if err != nil {
		t.Fatalf("httpserver: %v", err)
	}
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

// NewClient returns an HTTP client that keeps cookies and does not follow redirects.
func NewClient(t testing.TB) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
		Timeout: 10 * time.Second,
	}
}
