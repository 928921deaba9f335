package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sdchassis.be/web/internal/i18n"
)

func testBundle(t *testing.T) *i18n.Bundle {
	t.Helper()
	bundle, err := i18n.Load(fstest.MapFS{
		"locales/fr.json": {Data: []byte(`{"greeting": "Bonjour", "catalogues.filter.all": "Tous"}`)},
	}, "locales", "fr", []string{"fr"})
	require.NoError(t, err)
	return bundle
}

func testTemplates() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.tmpl":    {Data: []byte(`{{define "base"}}<main>{{template "content" .}}</main>{{end}}`)},
		"partials/bits.tmpl":   {Data: []byte(`{{define "bit"}}<b>{{categoryLabel "fr" .}}</b>{{end}}`)},
		"pages/hello.tmpl":     {Data: []byte(`{{define "content"}}{{t "fr" "greeting"}} {{template "bit" "all"}}{{end}}`)},
		"pages/broken.tmpl":    {Data: []byte(`{{define "content"}}{{.Missing.Field}}{{end}}`)},
		"pages/telephone.tmpl": {Data: []byte(`{{define "content"}}<a href="{{tel "0478 73 79 46" ""}}">x</a>{{end}}`)},
	}
}

func TestRendererExecutesPageWithinLayout(t *testing.T) {
	r, err := NewRenderer(testTemplates(), testBundle(t), false)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, r.Render(rec, http.StatusTeapot, "hello", "base", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<main>Bonjour <b>Tous</b></main>", rec.Body.String())
}

func TestRendererTelLinksSurviveEscaping(t *testing.T) {
	r, err := NewRenderer(testTemplates(), testBundle(t), false)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, r.Render(rec, http.StatusOK, "telephone", "content", nil))
	assert.Equal(t, `<a href="tel:0478737946">x</a>`, rec.Body.String())
}

func TestRendererLeavesResponseUntouchedOnFailure(t *testing.T) {
	r, err := NewRenderer(testTemplates(), testBundle(t), false)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	err = r.Render(rec, http.StatusOK, "broken", "base", map[string]any{})
	require.Error(t, err)
	assert.Empty(t, rec.Body.String())
	assert.Empty(t, rec.Header().Get("Content-Type"))

	err = r.Render(httptest.NewRecorder(), http.StatusOK, "absent", "base", nil)
	require.ErrorContains(t, err, `unknown page template "absent"`)
}

func TestRendererReloadPicksUpChanges(t *testing.T) {
	fsys := testTemplates()
	r, err := NewRenderer(fsys, testBundle(t), true)
	require.NoError(t, err)

	fsys["pages/hello.tmpl"] = &fstest.MapFile{Data: []byte(`{{define "content"}}changed{{end}}`)}
	rec := httptest.NewRecorder()
	require.NoError(t, r.Render(rec, http.StatusOK, "hello", "base", nil))
	assert.Equal(t, "<main>changed</main>", rec.Body.String())
}

func TestNewRendererRequiresPages(t *testing.T) {
	_, err := NewRenderer(fstest.MapFS{
		"layouts/base.tmpl": {Data: []byte(`{{define "base"}}{{end}}`)},
	}, testBundle(t), false)
	require.Error(t, err)
}

func TestIsDownloadable(t *testing.T) {
	assert.True(t, isDownloadable("https://docs.example.com/a.pdf"))
	assert.True(t, isDownloadable(" HTTP://docs.example.com/a.pdf"))
	assert.False(t, isDownloadable("/files/a.pdf"))
	assert.False(t, isDownloadable("javascript:alert(1)"))
	assert.False(t, isDownloadable(""))
}

func TestCatalogueURL(t *testing.T) {
	assert.Equal(t, "/catalogues", catalogueURL("all"))
	assert.Equal(t, "/catalogues?category=Portes+%26+fen%C3%AAtres", catalogueURL("Portes & fenêtres"))
}
