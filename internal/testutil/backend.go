package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"sdchassis.be/web/internal/backend"
)

// Backend is an in-process stand-in for the REST API, serving fixtures under /api.
type Backend struct {
	*httptest.Server

	mu           sync.Mutex
	chassisTypes []backend.ChassisType
	realisations []backend.Realisation
	catalogues   []backend.Catalogue
	categories   []string
	status       map[string]int
	hold         map[string]chan struct{}
	calls        map[string]int
	bodies       map[string][]byte
	replies      map[string]reply
}

type reply struct {
	status int
	body   string
}

// NewBackend starts a stub API preloaded with Fixtures.
func NewBackend(t testing.TB) *Backend {
	t.Helper()

	f := Fixtures()
	b := &Backend{
		chassisTypes: f.ChassisTypes,
		realisations: f.Realisations,
		catalogues:   f.Catalogues,
		categories:   f.Categories,
		status:       map[string]int{},
		hold:         map[string]chan struct{}{},
		calls:        map[string]int{},
		bodies:       map[string][]byte{},
		replies:      map[string]reply{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/chassis-types", func(w http.ResponseWriter, r *http.Request) {
		b.serve(w, r, func() any { return b.chassisTypes })
	})
	mux.HandleFunc("GET /api/realisations", func(w http.ResponseWriter, r *http.Request) {
		b.serve(w, r, func() any { return b.realisations })
	})
	mux.HandleFunc("GET /api/catalogues", func(w http.ResponseWriter, r *http.Request) {
		b.serve(w, r, func() any { return b.catalogues })
	})
	mux.HandleFunc("GET /api/catalogues/categories", func(w http.ResponseWriter, r *http.Request) {
		b.serve(w, r, func() any { return map[string][]string{"categories": b.categories} })
	})
	ack := func() any { return map[string]string{"status": "received"} }
	mux.HandleFunc("POST /api/devis", func(w http.ResponseWriter, r *http.Request) { b.serve(w, r, ack) })
	mux.HandleFunc("POST /api/contact", func(w http.ResponseWriter, r *http.Request) { b.serve(w, r, ack) })

	b.Server = httptest.NewServer(mux)
	t.Cleanup(b.Server.Close)
	return b
}

// BaseURL is the API base to configure the client with.
func (b *Backend) BaseURL() string {
	return b.Server.URL + "/api"
}

// FailWith makes path answer status until reset with 0.
func (b *Backend) FailWith(path string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if status == 0 {
		delete(b.status, path)
		return
	}
	b.status[path] = status
}

// ReplyWith makes path answer status with a raw body instead of its JSON payload.
func (b *Backend) ReplyWith(path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.replies[path] = reply{status: status, body: body}
}

// Hold blocks requests to path until the returned release func is called.
func (b *Backend) Hold(path string) (release func()) {
	ch := make(chan struct{})
	b.mu.Lock()
	b.hold[path] = ch
	b.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.hold, path)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// SetCatalogues replaces the catalogue fixtures.
func (b *Backend) SetCatalogues(items []backend.Catalogue, categories []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.catalogues = items
	b.categories = categories
}

// Calls reports how many requests reached path.
func (b *Backend) Calls(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[path]
}

// LastBody returns the last request body posted to path.
func (b *Backend) LastBody(path string) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.bodies[path]...)
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request, payload func() any) {
	path := r.URL.Path
	body, _ := io.ReadAll(r.Body)

	b.mu.Lock()
	b.calls[path]++
	if len(body) > 0 {
		b.bodies[path] = body
	}
	hold := b.hold[path]
	status := b.status[path]
	custom, hasReply := b.replies[path]
	b.mu.Unlock()

	if hold != nil {
		select {
		case <-hold:
		case <-r.Context().Done():
			return
		}
	}
	if status != 0 {
		http.Error(w, `{"detail":"stub failure"}`, status)
		return
	}
	if hasReply {
		w.WriteHeader(custom.status)
		_, _ = io.WriteString(w, custom.body)
		return
	}

	b.mu.Lock()
	out := payload()
	b.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}
