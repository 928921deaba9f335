package handlers

import (
	"html/template"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"sdchassis.be/web/internal/content"
	"sdchassis.be/web/internal/middleware"
	"sdchassis.be/web/internal/nav"
	"sdchassis.be/web/internal/seo"
)

const metaDescriptionLimit = 160

// PageData is the root value every page template receives.
type PageData struct {
	Lang        string
	Path        string
	Langs       []string
	Title       string
	Description string
	SEO         seo.Meta
	JSONLD      []template.JS
	Analytics   Analytics
	Nav         []nav.RenderedItem
	Breadcrumbs []nav.Crumb
	Site        *content.Site
	CSRFToken   string

	Home         *HomeView
	Chassis      *ChassisView
	Realisations *RealisationsView
	Catalogues   *CataloguesView
	Form         *FormView
}

// newPage assembles the shell shared by every page. titleKey and descKey are i18n keys;
// an empty descKey falls back to the hero copy.
func (h *Handlers) newPage(r *http.Request, titleKey, descKey string) (*PageData, error) {
	ctx := r.Context()
	lang := middleware.Lang(ctx)
	site, err := h.content.Site(lang)
	if err != nil {
		return nil, err
	}

	title := h.bundle.T(lang, titleKey)
	fullTitle := site.Company.Name
	if r.URL.Path != "/" {
		fullTitle = title + " | " + site.Company.Name
	}
	var desc string
	if descKey != "" {
		desc = h.bundle.T(lang, descKey)
	} else {
		desc = content.PlainText(string(site.Hero.BodyHTML), metaDescriptionLimit)
	}

	p := &PageData{
		Lang:        lang,
		Path:        r.URL.Path,
		Langs:       h.bundle.Supported(),
		Title:       title,
		Description: desc,
		SEO:         seo.Build(h.baseURL, r.URL.Path, fullTitle, desc, site.Company.Logo, lang, h.bundle.Supported()),
		Analytics:   h.analytics,
		Nav:         nav.Build(r.URL.Path),
		Breadcrumbs: nav.Breadcrumbs(r.URL.Path),
		Site:        site,
		CSRFToken:   middleware.CSRFToken(ctx),
	}
	p.SEO.OG.SiteName = site.Company.Name
	p.JSONLD = h.structuredData(p)
	return p, nil
}

func (h *Handlers) structuredData(p *PageData) []template.JS {
	c := p.Site.Company
	home := seo.Absolute(h.baseURL, "/")
	hours := make([]string, 0, len(c.Hours))
	for _, hr := range c.Hours {
		if hr.Schema != "" {
			hours = append(hours, hr.Schema)
		}
	}
	out := []template.JS{
		seo.JSON(seo.Organization(c.Name, home, c.Logo, c.Emails, c.Phone)),
		seo.JSON(seo.LocalBusiness(c.Name, home, c.Phone, seo.PostalAddress{
			Street:     c.Workshop.Street,
			PostalCode: c.Workshop.PostalCode,
			Locality:   c.Workshop.City,
			Country:    c.Workshop.Country,
		}, hours, p.Site.ManufacturerNames())),
	}
	if len(p.Breadcrumbs) > 1 {
		items := make([]seo.BreadcrumbItem, 0, len(p.Breadcrumbs))
		for _, c := range p.Breadcrumbs {
			items = append(items, seo.BreadcrumbItem{
				Name: h.bundle.T(p.Lang, c.LabelKey),
				Item: seo.Absolute(h.baseURL, c.Href),
			})
		}
		out = append(out, seo.JSON(seo.BreadcrumbList(items)))
	}
	return out
}

// pageOrError builds the shell or answers 500 when the site copy is unavailable.
func (h *Handlers) pageOrError(w http.ResponseWriter, r *http.Request, titleKey, descKey string) (*PageData, bool) {
	p, err := h.newPage(r, titleKey, descKey)
	if err != nil {
		logFor(r).Error("site content unavailable", zap.Error(err))
		middleware.WriteError(w, r, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return nil, false
	}
	return p, true
}

// isDownloadable reports whether a catalogue link may be offered for download.
func isDownloadable(raw string) bool {
	raw = strings.ToLower(strings.TrimSpace(raw))
	return strings.HasPrefix(raw, "https://") || strings.HasPrefix(raw, "http://")
}
