// Package seo builds page metadata and schema.org payloads.
package seo

import "strings"

// OpenGraph holds og:* properties.
type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
	URL         string
	SiteName    string
	Locale      string
}

// Twitter holds twitter:* card properties.
type Twitter struct {
	Card  string
	Image string
}

// Alternate is an hreflang link.
type Alternate struct {
	Lang string
	Href string
}

// Meta is the head metadata of one page.
type Meta struct {
	Title       string
	Description string
	Canonical   string
	Robots      string
	OG          OpenGraph
	Twitter     Twitter
	Alternates  []Alternate
}

// Absolute joins base and path; with no base the path is returned unchanged.
func Absolute(base, p string) string {
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}
	if base == "" {
		return p
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(p, "/")
}

// OGLocale maps a site language to an og:locale value.
func OGLocale(lang string) string {
	switch lang {
	case "fr":
		return "fr_BE"
	case "en":
		return "en_GB"
	default:
		return lang
	}
}

// Build assembles Meta for a page. base may be empty, in which case canonical and
// alternate links are relative.
func Build(base, path, title, description, image, lang string, langs []string) Meta {
	canonical := Absolute(base, path)
	m := Meta{
		Title:       title,
		Description: description,
		Canonical:   canonical,
		OG: OpenGraph{
			Title:       title,
			Description: description,
			Image:       image,
			Type:        "website",
			URL:         canonical,
			Locale:      OGLocale(lang),
		},
		Twitter: Twitter{Card: "summary_large_image", Image: image},
	}
	if len(langs) > 1 {
		for _, l := range langs {
			m.Alternates = append(m.Alternates, Alternate{Lang: l, Href: canonical + "?hl=" + l})
		}
	}
	return m
}
