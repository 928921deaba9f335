package seo

import (
	"encoding/json"
	"html/template"
)

// JSON marshals v for a <script type="application/ld+json"> block. It returns "" on error.
func JSON(v any) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return template.JS(b) //nolint:gosec // marshalled JSON
}

// Organization returns a minimal Organization schema.
func Organization(name, url, logoURL string, emails []string, phone string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "Organization",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if logoURL != "" {
		m["logo"] = logoURL
	}
	if len(emails) > 0 {
		m["email"] = emails[0]
	}
	if phone != "" {
		m["telephone"] = phone
	}
	return m
}

// PostalAddress is the schema.org address subset the site publishes.
type PostalAddress struct {
	Street     string
	PostalCode string
	Locality   string
	Country    string
}

// LocalBusiness returns a HomeAndConstructionBusiness schema for a physical location.
// brands lists the manufacturers whose products the business installs.
func LocalBusiness(name, url, phone string, addr PostalAddress, openingHours, brands []string) map[string]any {
	m := map[string]any{
		"@context":  "https://schema.org",
		"@type":     "HomeAndConstructionBusiness",
		"name":      name,
		"telephone": phone,
		"address": map[string]any{
			"@type":           "PostalAddress",
			"streetAddress":   addr.Street,
			"postalCode":      addr.PostalCode,
			"addressLocality": addr.Locality,
			"addressCountry":  addr.Country,
		},
	}
	if url != "" {
		m["url"] = url
	}
	if len(openingHours) > 0 {
		m["openingHours"] = openingHours
	}
	if len(brands) > 0 {
		list := make([]map[string]any, 0, len(brands))
		for _, b := range brands {
			list = append(list, map[string]any{"@type": "Brand", "name": b})
		}
		m["brand"] = list
	}
	return m
}

// BreadcrumbItem maps name and absolute item URL.
type BreadcrumbItem struct {
	Name string
	Item string
}

// BreadcrumbList builds schema.org BreadcrumbList.
func BreadcrumbList(items []BreadcrumbItem) map[string]any {
	el := make([]map[string]any, 0, len(items))
	for i, it := range items {
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     it.Name,
			"item":     it.Item,
		})
	}
	return map[string]any{
		"@context":        "https://schema.org",
		"@type":           "BreadcrumbList",
		"itemListElement": el,
	}
}
