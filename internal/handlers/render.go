package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"sdchassis.be/web/internal/format"
	"sdchassis.be/web/internal/i18n"
	"sdchassis.be/web/internal/listing"
)

// Renderer parses one template set per page: the shared layouts and partials plus the
// page file. With reload set templates are re-read on every render.
type Renderer struct {
	fsys   fs.FS
	funcs  template.FuncMap
	reload bool

	mu    sync.RWMutex
	pages map[string]*template.Template
}

// NewRenderer parses templates from fsys, laid out as layouts/, partials/ and pages/.
func NewRenderer(fsys fs.FS, bundle *i18n.Bundle, reload bool) (*Renderer, error) {
	r := &Renderer{
		fsys:   fsys,
		funcs:  funcMap(bundle),
		reload: reload,
	}
	pages, err := r.parse()
	if err != nil {
		return nil, err
	}
	r.pages = pages
	return r, nil
}

func funcMap(bundle *i18n.Bundle) template.FuncMap {
	return template.FuncMap{
		"t":  bundle.T,
		"tf": bundle.Tf,
		"categoryLabel": func(lang, category string) string {
			if category == listing.AllCategories {
				return bundle.T(lang, "catalogues.filter.all")
			}
			return category
		},
		"date":    format.Date,
		"isodate": format.ISODate,
		"tel": func(display, e164 string) template.URL {
			// TelHref keeps digits and "+" only
			return template.URL(format.TelHref(display, e164))
		},
		"add":  func(a, b int) int { return a + b },
		"year": func() int { return time.Now().Year() },
		"join": strings.Join,
	}
}

func (r *Renderer) parse() (map[string]*template.Template, error) {
	base, err := template.New("_root").Funcs(r.funcs).ParseFS(r.fsys, "layouts/*.tmpl", "partials/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("handlers: parse layouts: %w", err)
	}
	files, err := fs.Glob(r.fsys, "pages/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("handlers: glob pages: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("handlers: no page templates found")
	}
	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("handlers: clone layouts: %w", err)
		}
		if _, err := clone.ParseFS(r.fsys, file); err != nil {
			return nil, fmt.Errorf("handlers: parse %s: %w", file, err)
		}
		pages[strings.TrimSuffix(path.Base(file), ".tmpl")] = clone
	}
	return pages, nil
}

func (r *Renderer) lookup(page string) (*template.Template, error) {
	if r.reload {
		pages, err := r.parse()
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.pages = pages
		r.mu.Unlock()
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.pages[page]
	if !ok {
		return nil, fmt.Errorf("handlers: unknown page template %q", page)
	}
	return t, nil
}

// Render executes block from page's template set. Output is buffered so a failed
// execution leaves the response untouched.
func (r *Renderer) Render(w http.ResponseWriter, status int, page, block string, data any) error {
	t, err := r.lookup(page)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, block, data); err != nil {
		return fmt.Errorf("handlers: execute %s/%s: %w", page, block, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}
