package handlers

import (
	"context"
	"net/http"
	"net/url"

	"golang.org/x/sync/errgroup"

	"sdchassis.be/web/internal/backend"
	"sdchassis.be/web/internal/listing"
	"sdchassis.be/web/internal/middleware"
)

const (
	catalogueResultsID = "catalogue-results"
	categoryParam      = "category"
)

// CatalogueItem is a catalogue with its download link vetted.
type CatalogueItem struct {
	backend.Catalogue
	Downloadable bool
}

// CataloguesView is the filter bar and the filtered grid.
type CataloguesView struct {
	Categories []string
	Selected   string
	Items      []CatalogueItem
	Total      int
}

// Catalogues renders the catalogue page. htmx requests aimed at the results grid get the
// grid alone, filtered over the collections already held.
func (h *Handlers) Catalogues(w http.ResponseWriter, r *http.Request) {
	p, ok := h.pageOrError(w, r, "catalogues.title", "catalogues.subtitle")
	if !ok {
		return
	}
	ctx := r.Context()
	fragment := middleware.IsHTMX(ctx) && r.Header.Get("HX-Target") == catalogueResultsID

	items, categories := h.catalogues.Items(), h.categories.Items()
	if !fragment || len(items) == 0 {
		items, categories = h.loadCatalogues(ctx)
	}

	known := listing.Categories(categories)
	selected := listing.Normalize(r.URL.Query().Get(categoryParam), known)
	p.Catalogues = &CataloguesView{
		Categories: known,
		Selected:   selected,
		Items:      catalogueItems(listing.Filter(items, selected)),
		Total:      len(items),
	}

	if fragment {
		w.Header().Set("HX-Push-Url", catalogueURL(selected))
		h.render(w, r, http.StatusOK, "catalogues", "catalogue_results", p)
		return
	}
	h.render(w, r, http.StatusOK, "catalogues", "base", p)
}

func (h *Handlers) loadCatalogues(ctx context.Context) ([]backend.Catalogue, []string) {
	var (
		g          errgroup.Group
		items      []backend.Catalogue
		categories []string
	)
	g.Go(func() error {
		items, _ = h.catalogues.Load(ctx)
		return nil
	})
	g.Go(func() error {
		categories, _ = h.categories.Load(ctx)
		return nil
	})
	_ = g.Wait()
	return items, categories
}

func catalogueItems(in []backend.Catalogue) []CatalogueItem {
	out := make([]CatalogueItem, 0, len(in))
	for _, c := range in {
		out = append(out, CatalogueItem{Catalogue: c, Downloadable: isDownloadable(c.PDFURL)})
	}
	return out
}

// catalogueURL is the address of the page showing category selected.
func catalogueURL(selected string) string {
	if selected == listing.AllCategories {
		return "/catalogues"
	}
	return "/catalogues?" + url.Values{categoryParam: {selected}}.Encode()
}
