package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMarksActive(t *testing.T) {
	items := Build("/catalogues")
	require.Len(t, items, len(Main))
	for _, it := range items {
		assert.Equal(t, it.Href == "/catalogues", it.Active, it.Href)
	}

	home := Build("")
	assert.True(t, home[0].Active)
	assert.False(t, home[1].Active)
}

func TestBreadcrumbs(t *testing.T) {
	assert.Equal(t, []Crumb{{Href: "/", LabelKey: "nav.home", Active: true}}, Breadcrumbs("/"))

	crumbs := Breadcrumbs("/devis")
	require.Len(t, crumbs, 2)
	assert.Equal(t, "nav.devis", crumbs[1].LabelKey)
	assert.False(t, crumbs[0].Active)

	assert.Len(t, Breadcrumbs("/unknown"), 1)
}
