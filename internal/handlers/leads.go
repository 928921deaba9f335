package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"sdchassis.be/web/internal/backend"
	"sdchassis.be/web/internal/forms"
	"sdchassis.be/web/internal/middleware"
)

// FormView is what the form templates render: the draft values and the outcome of the
// last action.
type FormView struct {
	Kind    string
	Action  string
	Values  map[string]string
	Invalid map[string]bool
	State   string
	// MessageKey is the i18n key of the banner above the form; empty for none.
	MessageKey   string
	Success      bool
	Busy         bool
	ProjectTypes []ProjectOption
}

// ProjectOption is one entry of the project type select.
type ProjectOption struct {
	Value    string
	LabelKey string
}

var projectOptions = []ProjectOption{
	{Value: backend.ProjectResidential, LabelKey: "devis.project.residential"},
	{Value: backend.ProjectCommercial, LabelKey: "devis.project.commercial"},
	{Value: backend.ProjectRenovation, LabelKey: "devis.project.renovation"},
	{Value: backend.ProjectConstruction, LabelKey: "devis.project.construction"},
}

// leadForm describes one lead form: where it lives, how it renders and which visitor
// drafts back it.
type leadForm[T any, P forms.Draft[T]] struct {
	kind       string
	page       string
	fragment   string
	action     string
	titleKey   string
	descKey    string
	successKey string
	registry   *forms.Registry[T, P]
	values     func(T) map[string]string
}

func (h *Handlers) quoteForm() leadForm[backend.QuoteRequest, *backend.QuoteRequest] {
	return leadForm[backend.QuoteRequest, *backend.QuoteRequest]{
		kind:       "quote",
		page:       "devis",
		fragment:   "quote_form",
		action:     "/devis",
		titleKey:   "devis.title",
		descKey:    "devis.subtitle",
		successKey: "form.quote.success",
		registry:   h.quotes,
		values: func(q backend.QuoteRequest) map[string]string {
			return map[string]string{
				"name":         q.Name,
				"email":        q.Email,
				"phone":        q.Phone,
				"project_type": q.ProjectType,
				"description":  q.Description,
			}
		},
	}
}

func (h *Handlers) contactForm() leadForm[backend.ContactMessage, *backend.ContactMessage] {
	return leadForm[backend.ContactMessage, *backend.ContactMessage]{
		kind:       "contact",
		page:       "contact",
		fragment:   "contact_form",
		action:     "/contact",
		titleKey:   "contact.title",
		descKey:    "contact.subtitle",
		successKey: "form.contact.success",
		registry:   h.contacts,
		values: func(m backend.ContactMessage) map[string]string {
			return map[string]string{
				"name":     m.Name,
				"email":    m.Email,
				"phone":    m.Phone,
				"localite": m.Localite,
				"message":  m.Message,
			}
		},
	}
}

// QuotePage renders the quote request form with the visitor's current draft.
func (h *Handlers) QuotePage(w http.ResponseWriter, r *http.Request) {
	showForm(h, h.quoteForm(), w, r)
}

// QuoteSubmit receives the posted quote request and delivers it to the backend.
func (h *Handlers) QuoteSubmit(w http.ResponseWriter, r *http.Request) {
	submitForm(h, h.quoteForm(), w, r)
}

// QuoteDraft stores single field edits of the quote draft.
func (h *Handlers) QuoteDraft(w http.ResponseWriter, r *http.Request) {
	updateDraft(h.quoteForm(), w, r)
}

// ContactPage renders the contact form with the visitor's current draft.
func (h *Handlers) ContactPage(w http.ResponseWriter, r *http.Request) {
	showForm(h, h.contactForm(), w, r)
}

// ContactSubmit receives the posted contact message and delivers it to the backend.
func (h *Handlers) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	submitForm(h, h.contactForm(), w, r)
}

// ContactDraft stores single field edits of the contact draft.
func (h *Handlers) ContactDraft(w http.ResponseWriter, r *http.Request) {
	updateDraft(h.contactForm(), w, r)
}

func showForm[T any, P forms.Draft[T]](h *Handlers, lf leadForm[T, P], w http.ResponseWriter, r *http.Request) {
	snap := lf.registry.Get(visitorKey(r)).Snapshot()
	renderForm(h, lf, w, r, http.StatusOK, snap)
}

func submitForm[T any, P forms.Draft[T]](h *Handlers, lf leadForm[T, P], w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.WriteError(w, r, http.StatusBadRequest, "invalid form")
		return
	}
	var draft T
	if err := h.decoder.Decode(&draft, r.PostForm); err != nil {
		logFor(r).Warn("form decode failed", zap.String("form", lf.kind), zap.Error(err))
		middleware.WriteError(w, r, http.StatusBadRequest, "invalid form")
		return
	}

	form := lf.registry.Get(visitorKey(r))
	if err := form.Replace(draft); err != nil {
		rejectInFlight(h, lf, w, r, form.Snapshot())
		return
	}
	// a visitor leaving the page must not abort delivery; the transport timeout still applies
	snap, err := form.Submit(context.WithoutCancel(r.Context()))
	if errors.Is(err, forms.ErrInFlight) {
		rejectInFlight(h, lf, w, r, snap)
		return
	}

	status := http.StatusOK
	var vErr *forms.ValidationError
	switch {
	case err == nil:
		logFor(r).Info("lead submitted", zap.String("form", lf.kind))
	case errors.As(err, &vErr):
		status = http.StatusUnprocessableEntity
	default:
		status = http.StatusBadGateway
		logFor(r).Error("lead submission failed",
			zap.String("form", lf.kind),
			zap.Bool("network", backend.IsNetwork(err)),
			zap.Int("backend_status", backend.StatusCode(err)),
			zap.Error(err),
		)
	}
	// htmx only swaps 2xx responses
	if middleware.IsHTMX(r.Context()) {
		status = http.StatusOK
	}
	renderForm(h, lf, w, r, status, snap)
}

// rejectInFlight answers a submit racing an outstanding one. htmx callers get no swap so
// the pending form stays on screen.
func rejectInFlight[T any, P forms.Draft[T]](h *Handlers, lf leadForm[T, P], w http.ResponseWriter, r *http.Request, snap forms.Snapshot[T]) {
	logFor(r).Warn("lead submission rejected", zap.String("form", lf.kind), zap.Error(forms.ErrInFlight))
	if middleware.IsHTMX(r.Context()) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	renderForm(h, lf, w, r, http.StatusConflict, snap)
}

func updateDraft[T any, P forms.Draft[T]](lf leadForm[T, P], w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.WriteError(w, r, http.StatusBadRequest, "invalid form")
		return
	}
	form := lf.registry.Get(visitorKey(r))
	for field, values := range r.PostForm {
		if field == middleware.CSRFFormField || len(values) == 0 {
			continue
		}
		err := form.Update(field, values[len(values)-1])
		switch {
		case err == nil, errors.Is(err, backend.ErrUnknownField):
		case errors.Is(err, forms.ErrInFlight):
			middleware.WriteError(w, r, http.StatusConflict, "submission in progress")
			return
		default:
			middleware.WriteError(w, r, http.StatusBadRequest, err.Error())
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func renderForm[T any, P forms.Draft[T]](h *Handlers, lf leadForm[T, P], w http.ResponseWriter, r *http.Request, status int, snap forms.Snapshot[T]) {
	view := &FormView{
		Kind:         lf.kind,
		Action:       lf.action,
		Values:       lf.values(snap.Draft),
		Invalid:      map[string]bool{},
		State:        snap.State.String(),
		ProjectTypes: projectOptions,
	}
	var vErr *forms.ValidationError
	switch {
	case snap.State == forms.Succeeded:
		view.MessageKey = lf.successKey
		view.Success = true
	case snap.State == forms.Failed:
		view.MessageKey = "form.failure"
	case snap.State == forms.Submitting:
		view.MessageKey = "form.sending"
		view.Busy = true
	case errors.As(snap.Err, &vErr):
		view.MessageKey = "form.invalid"
		for _, f := range vErr.Fields {
			view.Invalid[f] = true
		}
	}

	if middleware.IsHTMX(r.Context()) && r.Method == http.MethodPost {
		p := &PageData{
			Lang:      middleware.Lang(r.Context()),
			CSRFToken: middleware.CSRFToken(r.Context()),
			Form:      view,
		}
		h.render(w, r, status, lf.page, lf.fragment, p)
		return
	}
	p, ok := h.pageOrError(w, r, lf.titleKey, lf.descKey)
	if !ok {
		return
	}
	p.Form = view
	h.render(w, r, status, lf.page, "base", p)
}
