// Package nav defines the site navigation and breadcrumbs.
package nav

import (
	"path"
	"strings"
)

// Item represents a top-level navigation item.
type Item struct {
	Path     string // e.g. "/catalogues"
	LabelKey string // i18n key, e.g. "nav.catalogues"
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href     string
	LabelKey string
	Active   bool
}

// Crumb represents a breadcrumb entry.
type Crumb struct {
	Href     string
	LabelKey string
	Active   bool
}

// Main is the primary navigation definition.
var Main = []Item{
	{Path: "/", LabelKey: "nav.home"},
	{Path: "/realisations", LabelKey: "nav.realisations"},
	{Path: "/fabricants", LabelKey: "nav.fabricants"},
	{Path: "/catalogues", LabelKey: "nav.catalogues"},
	{Path: "/contact", LabelKey: "nav.contact"},
}

// sections not in the main menu but still reachable
var extra = map[string]string{
	"/chassis": "nav.chassis",
	"/devis":   "nav.devis",
}

// Build renders navigation items with active state given the current path.
func Build(currentPath string) []RenderedItem {
	if currentPath == "" {
		currentPath = "/"
	}
	items := make([]RenderedItem, 0, len(Main))
	for _, it := range Main {
		items = append(items, RenderedItem{
			Href:     it.Path,
			LabelKey: it.LabelKey,
			Active:   isActive(it.Path, currentPath),
		})
	}
	return items
}

func isActive(itemPath, currentPath string) bool {
	if itemPath == "/" {
		return currentPath == "/"
	}
	return currentPath == itemPath || strings.HasPrefix(currentPath, itemPath+"/")
}

// Breadcrumbs returns Home followed by the known section of currentPath.
// Unknown sections yield Home only.
func Breadcrumbs(currentPath string) []Crumb {
	if currentPath == "" {
		currentPath = "/"
	}
	clean := path.Clean(currentPath)
	crumbs := []Crumb{{Href: "/", LabelKey: "nav.home", Active: clean == "/"}}
	if clean == "/" {
		return crumbs
	}
	top := "/" + strings.SplitN(strings.TrimPrefix(clean, "/"), "/", 2)[0]
	if key := LabelKey(top); key != "" {
		crumbs = append(crumbs, Crumb{Href: top, LabelKey: key, Active: true})
	}
	return crumbs
}

// LabelKey returns the i18n key naming a section path, or "".
func LabelKey(sectionPath string) string {
	for _, it := range Main {
		if it.Path == sectionPath {
			return it.LabelKey
		}
	}
	return extra[sectionPath]
}
