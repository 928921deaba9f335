package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	web "sdchassis.be/web"
	"sdchassis.be/web/internal/backend"
	"sdchassis.be/web/internal/config"
	"sdchassis.be/web/internal/content"
	"sdchassis.be/web/internal/handlers"
	"sdchassis.be/web/internal/httpserver"
	"sdchassis.be/web/internal/i18n"
	"sdchassis.be/web/internal/observability"
	"sdchassis.be/web/internal/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "web: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	client, err := backend.NewClient(cfg.Backend.BaseURL, backend.WithTimeout(cfg.Backend.Timeout))
	if err != nil {
		return err
	}

	sessions, err := session.NewManager(session.Config{
		HashKey:      []byte(cfg.Session.HashKey),
		BlockKey:     []byte(cfg.Session.BlockKey),
		CookieSecure: cfg.Site.IsProduction(),
	})
	if err != nil {
		return err
	}
	if cfg.Session.HashKey == "" || cfg.Session.BlockKey == "" {
		logger.Warn("session keys not configured; sessions will not survive a restart")
	}

	files, templates, assets := sources(cfg.Site)
	bundle, err := i18n.Load(files, "locales", cfg.Site.DefaultLang, cfg.Site.Langs)
	if err != nil {
		return err
	}
	store := content.NewStore(files, filepath.ToSlash(cfg.Site.ContentDir), cfg.Site.DefaultLang, cfg.Site.Dev)
	if err := store.Preload(bundle.Supported()...); err != nil {
		return err
	}

	srv, err := httpserver.New(httpserver.Config{
		Address:      cfg.Server.Address(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		Logger:       logger,
		Backend:      client,
		Sessions:     sessions,
		Bundle:       bundle,
		Content:      store,
		Templates:    templates,
		Assets:       assets,
		Reload:       cfg.Site.Dev,
		BaseURL:      cfg.Site.BaseURL,
		PreviewSize:  cfg.Site.PreviewSize,
		Analytics:    handlers.AnalyticsFromConfig(cfg.Analytics),
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	logger.Info("web server listening",
		zap.String("addr", srv.Addr),
		zap.String("backend", client.BaseURL()),
		zap.String("env", cfg.Site.Environment),
		zap.Bool("dev", cfg.Site.Dev),
	)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("web server stopped")
	return nil
}

// sources picks the embedded tree or, in dev mode, the working directory so templates and
// copy can be edited without rebuilding.
func sources(site config.SiteConfig) (files, templates, assets fs.FS) {
	if !site.Dev {
		return web.FS(), web.Templates(), web.Assets()
	}
	root := os.DirFS(".")
	return root, os.DirFS(site.TemplatesDir), os.DirFS(filepath.Join("public", "assets"))
}
