package handlers

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"sdchassis.be/web/internal/backend"
	"sdchassis.be/web/internal/listing"
)

// HomeView carries the previews shown below the hero.
type HomeView struct {
	Chassis      []backend.ChassisType
	Realisations []backend.Realisation
}

// ChassisView lists every chassis type.
type ChassisView struct {
	Items []backend.ChassisType
}

// RealisationsView lists every realisation.
type RealisationsView struct {
	Items []backend.Realisation
}

// Home renders the landing page with previews of chassis types and realisations.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	p, ok := h.pageOrError(w, r, "home.title", "")
	if !ok {
		return
	}
	ctx := r.Context()

	// list failures are logged by the loaders and never cancel the sibling fetch
	var (
		g            errgroup.Group
		chassis      []backend.ChassisType
		realisations []backend.Realisation
	)
	g.Go(func() error {
		items, _ := h.chassis.Load(ctx)
		chassis = listing.Preview(items, h.preview)
		return nil
	})
	g.Go(func() error {
		items, _ := h.realisations.Load(ctx)
		realisations = listing.Preview(items, h.preview)
		return nil
	})
	_ = g.Wait()

	p.Home = &HomeView{Chassis: chassis, Realisations: realisations}
	h.render(w, r, http.StatusOK, "home", "base", p)
}

// Chassis renders the full chassis range.
func (h *Handlers) Chassis(w http.ResponseWriter, r *http.Request) {
	p, ok := h.pageOrError(w, r, "chassis.title", "chassis.subtitle")
	if !ok {
		return
	}
	items, _ := h.chassis.Load(r.Context())
	p.Chassis = &ChassisView{Items: items}
	h.render(w, r, http.StatusOK, "chassis", "base", p)
}

// Realisations renders every completed project.
func (h *Handlers) Realisations(w http.ResponseWriter, r *http.Request) {
	p, ok := h.pageOrError(w, r, "realisations.title", "realisations.subtitle")
	if !ok {
		return
	}
	items, _ := h.realisations.Load(r.Context())
	p.Realisations = &RealisationsView{Items: items}
	h.render(w, r, http.StatusOK, "realisations", "base", p)
}

// Fabricants renders the partner manufacturers from the site copy.
func (h *Handlers) Fabricants(w http.ResponseWriter, r *http.Request) {
	p, ok := h.pageOrError(w, r, "fabricants.title", "fabricants.subtitle")
	if !ok {
		return
	}
	h.render(w, r, http.StatusOK, "fabricants", "base", p)
}
