// Package handlers renders the site pages and receives the lead forms.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/schema"
	"go.uber.org/zap"

	"sdchassis.be/web/internal/backend"
	"sdchassis.be/web/internal/content"
	"sdchassis.be/web/internal/forms"
	"sdchassis.be/web/internal/i18n"
	"sdchassis.be/web/internal/listing"
	"sdchassis.be/web/internal/middleware"
	"sdchassis.be/web/internal/observability"
)

const defaultPreviewSize = 3

// Backend is the subset of the API client the pages use.
type Backend interface {
	ChassisTypes(ctx context.Context) ([]backend.ChassisType, error)
	Realisations(ctx context.Context) ([]backend.Realisation, error)
	Catalogues(ctx context.Context) ([]backend.Catalogue, error)
	CatalogueCategories(ctx context.Context) ([]string, error)
	SubmitQuote(ctx context.Context, q backend.QuoteRequest, key string) (backend.Ack, error)
	SubmitContact(ctx context.Context, m backend.ContactMessage, key string) (backend.Ack, error)
}

type (
	quoteForm   = forms.Form[backend.QuoteRequest, *backend.QuoteRequest]
	contactForm = forms.Form[backend.ContactMessage, *backend.ContactMessage]
)

// Options wires the handler dependencies.
type Options struct {
	Backend   Backend
	Renderer  *Renderer
	Content   *content.Store
	Bundle    *i18n.Bundle
	Analytics Analytics
	// BaseURL is the absolute site origin used for canonical links; may be empty.
	BaseURL     string
	PreviewSize int
	// FormTTL bounds how long an idle visitor draft is kept.
	FormTTL time.Duration
}

// Handlers serves every page of the site.
type Handlers struct {
	backend   Backend
	renderer  *Renderer
	content   *content.Store
	bundle    *i18n.Bundle
	analytics Analytics
	baseURL   string
	preview   int

	chassis      *listing.Loader[backend.ChassisType]
	realisations *listing.Loader[backend.Realisation]
	catalogues   *listing.Loader[backend.Catalogue]
	categories   *listing.Loader[string]

	quotes   *forms.Registry[backend.QuoteRequest, *backend.QuoteRequest]
	contacts *forms.Registry[backend.ContactMessage, *backend.ContactMessage]
	decoder  *schema.Decoder
}

// New validates opts and builds the page handlers.
func New(opts Options) (*Handlers, error) {
	if opts.Backend == nil {
		return nil, errors.New("handlers: backend is required")
	}
	if opts.Renderer == nil {
		return nil, errors.New("handlers: renderer is required")
	}
	if opts.Content == nil {
		return nil, errors.New("handlers: content store is required")
	}
	if opts.Bundle == nil {
		return nil, errors.New("handlers: i18n bundle is required")
	}
	preview := opts.PreviewSize
	if preview <= 0 {
		preview = defaultPreviewSize
	}

	api := opts.Backend
	h := &Handlers{
		backend:   api,
		renderer:  opts.Renderer,
		content:   opts.Content,
		bundle:    opts.Bundle,
		analytics: opts.Analytics,
		baseURL:   opts.BaseURL,
		preview:   preview,

		chassis:      listing.NewLoader("chassis-types", api.ChassisTypes),
		realisations: listing.NewLoader("realisations", api.Realisations),
		catalogues:   listing.NewLoader("catalogues", api.Catalogues),
		categories:   listing.NewLoader("catalogue-categories", api.CatalogueCategories),
	}

	h.quotes = forms.NewRegistry(func() *quoteForm {
		return forms.New[backend.QuoteRequest, *backend.QuoteRequest](func(ctx context.Context, q backend.QuoteRequest, key string) error {
			_, err := api.SubmitQuote(ctx, q, key)
			return err
		})
	}, opts.FormTTL)
	h.contacts = forms.NewRegistry(func() *contactForm {
		return forms.New[backend.ContactMessage, *backend.ContactMessage](func(ctx context.Context, m backend.ContactMessage, key string) error {
			_, err := api.SubmitContact(ctx, m, key)
			return err
		})
	}, opts.FormTTL)

	h.decoder = schema.NewDecoder()
	h.decoder.IgnoreUnknownKeys(true)
	h.decoder.ZeroEmpty(true)
	return h, nil
}

// visitorKey identifies the form instances of the current visitor.
func visitorKey(r *http.Request) string {
	if sess, ok := middleware.SessionFromContext(r.Context()); ok {
		return sess.ID()
	}
	return "anonymous:" + r.RemoteAddr
}

func logFor(r *http.Request) *zap.Logger {
	return observability.FromContext(r.Context())
}

// render writes a page or fragment and turns template failures into a 500.
func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, page, block string, data any) {
	if err := h.renderer.Render(w, status, page, block, data); err != nil {
		logFor(r).Error("render failed",
			zap.String("page", page),
			zap.String("block", block),
			zap.Error(err),
		)
		middleware.WriteError(w, r, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}
