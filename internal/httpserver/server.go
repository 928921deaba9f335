// Package httpserver assembles the router, middleware stack and page routes.
package httpserver

import (
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	web "sdchassis.be/web"
	"sdchassis.be/web/internal/content"
	"sdchassis.be/web/internal/handlers"
	"sdchassis.be/web/internal/i18n"
	custommw "sdchassis.be/web/internal/middleware"
	"sdchassis.be/web/internal/observability"
	"sdchassis.be/web/internal/session"
)

const (
	defaultLang           = "fr"
	defaultRequestTimeout = 30 * time.Second
)

// Config holds runtime options for the site HTTP server. Zero values fall back to the
// embedded templates, copy and catalogues and to an ephemeral session key.
type Config struct {
	Address        string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration

	Logger   *zap.Logger
	Backend  handlers.Backend
	Sessions custommw.SessionStore
	Bundle   *i18n.Bundle
	Content  *content.Store

	Templates fs.FS
	Assets    fs.FS
	// Reload re-parses templates on every render.
	Reload bool

	BaseURL     string
	PreviewSize int
	Analytics   handlers.Analytics
}

// New constructs the HTTP server with its middleware stack and embedded assets.
func New(cfg Config) (*http.Server, error) {
	if cfg.Backend == nil {
		return nil, fmt.Errorf("httpserver: backend is required")
	}
	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}

	renderer, err := handlers.NewRenderer(cfg.Templates, cfg.Bundle, cfg.Reload)
	if err != nil {
		return nil, err
	}
	h, err := handlers.New(handlers.Options{
		Backend:     cfg.Backend,
		Renderer:    renderer,
		Content:     cfg.Content,
		Bundle:      cfg.Bundle,
		Analytics:   cfg.Analytics,
		BaseURL:     cfg.BaseURL,
		PreviewSize: cfg.PreviewSize,
	})
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(observability.InjectLogger(cfg.Logger))
	router.Use(observability.TraceMiddleware)
	router.Use(observability.RequestLogger)
	router.Use(observability.Recoverer(cfg.Logger, func(w http.ResponseWriter, r *http.Request) {
		custommw.WriteError(w, r, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}))

	router.Get("/healthz", h.Healthz)
	router.Get("/robots.txt", h.Robots)
	router.Get("/sitemap.xml", h.Sitemap)
	router.Handle("/assets/*", http.StripPrefix("/assets/", custommw.AssetsWithCache(cfg.Assets)))

	pages := chi.Chain(
		chimw.Compress(5, "text/html", "text/css", "application/json"),
		chimw.Timeout(cfg.RequestTimeout),
		custommw.HTMX,
		custommw.Session(cfg.Sessions),
		custommw.Locale(cfg.Bundle),
		custommw.CSRF,
		custommw.VaryLocale,
	)

	router.Group(func(r chi.Router) {
		r.Use(pages...)
		mountPages(r, h)
	})
	router.NotFound(pages.HandlerFunc(h.NotFound).ServeHTTP)

	return &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}, nil
}

func mountPages(r chi.Router, h *handlers.Handlers) {
	r.Get("/", h.Home)
	r.Get("/chassis", h.Chassis)
	r.Get("/realisations", h.Realisations)
	r.Get("/fabricants", h.Fabricants)
	r.Get("/catalogues", h.Catalogues)

	r.Get("/devis", h.QuotePage)
	r.Post("/devis", h.QuoteSubmit)
	r.Post("/devis/draft", h.QuoteDraft)

	r.Get("/contact", h.ContactPage)
	r.Post("/contact", h.ContactSubmit)
	r.Post("/contact/draft", h.ContactDraft)
}

func applyDefaults(cfg *Config) error {
	if cfg.Logger == nil {
		cfg.Logger = observability.NoopLogger()
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 15 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 60 * time.Second
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 60 * time.Second
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Templates == nil {
		cfg.Templates = web.Templates()
	}
	if cfg.Assets == nil {
		cfg.Assets = web.Assets()
	}
	if cfg.Bundle == nil {
		bundle, err := i18n.Load(web.FS(), "locales", defaultLang, []string{"fr", "en"})
		if err != nil {
			return err
		}
		cfg.Bundle = bundle
	}
	if cfg.Content == nil {
		cfg.Content = content.NewStore(web.FS(), "content", cfg.Bundle.Fallback(), false)
	}
	if cfg.Sessions == nil {
		manager, err := session.NewManager(session.Config{})
		if err != nil {
			return err
		}
		cfg.Sessions = manager
	}
	return nil
}
