package handlers

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"sdchassis.be/web/internal/nav"
	"sdchassis.be/web/internal/seo"
)

// Healthz reports liveness.
func (h *Handlers) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte("ok"))
}

// Robots serves robots.txt, pointing crawlers at the sitemap when the site URL is known.
func (h *Handlers) Robots(w http.ResponseWriter, _ *http.Request) {
	var b strings.Builder
	b.WriteString("User-agent: *\nAllow: /\n")
	if h.baseURL != "" {
		fmt.Fprintf(&b, "Sitemap: %s\n", seo.Absolute(h.baseURL, "/sitemap.xml"))
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(b.String()))
}

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc string `xml:"loc"`
}

// Sitemap lists the public pages.
func (h *Handlers) Sitemap(w http.ResponseWriter, _ *http.Request) {
	set := urlset{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, p := range sitemapPaths() {
		set.URLs = append(set.URLs, sitemapURL{Loc: seo.Absolute(h.baseURL, p)})
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write([]byte(xml.Header))
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	_ = enc.Encode(set)
}

func sitemapPaths() []string {
	paths := make([]string, 0, len(nav.Main)+2)
	for _, it := range nav.Main {
		paths = append(paths, it.Path)
	}
	return append(paths, "/chassis", "/devis")
}

// NotFound renders the 404 page inside the site shell.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	p, ok := h.pageOrError(w, r, "notfound.title", "notfound.body")
	if !ok {
		return
	}
	p.SEO.Robots = "noindex"
	h.render(w, r, http.StatusNotFound, "notfound", "base", p)
}
