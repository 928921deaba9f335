package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"locales/fr.json": {Data: []byte(`{"nav.home":"Accueil","form.sent":"Envoyé à %s"}`)},
		"locales/en.json": {Data: []byte(`{"nav.home":"Home"}`)},
	}
}

func TestLoadAndTranslate(t *testing.T) {
	b, err := Load(testFS(), "locales", "fr", []string{"fr", "en"})
	require.NoError(t, err)

	assert.Equal(t, []string{"en", "fr"}, b.Supported())
	assert.Equal(t, "Home", b.T("en", "nav.home"))
	assert.Equal(t, "Envoyé à %s", b.T("en", "form.sent"))
	assert.Equal(t, "Envoyé à Andenne", b.Tf("fr", "form.sent", "Andenne"))
	assert.Equal(t, "missing.key", b.T("fr", "missing.key"))
}

func TestLoadRequiresFallback(t *testing.T) {
	_, err := Load(testFS(), "locales", "nl", []string{"nl", "fr"})
	require.Error(t, err)
}

func TestLoadSkipsMissingSecondary(t *testing.T) {
	b, err := Load(testFS(), "locales", "fr", []string{"fr", "de"})
	require.NoError(t, err)
	assert.False(t, b.IsSupported("de"))
	assert.Equal(t, "fr", b.Resolve("de-DE"))
}

func TestResolveHonorsQValues(t *testing.T) {
	b, err := Load(testFS(), "locales", "fr", []string{"fr", "en"})
	require.NoError(t, err)

	assert.Equal(t, "en", b.Resolve("fr;q=0.8, en;q=0.9"))
	assert.Equal(t, "fr", b.Resolve("fr-BE,fr;q=0.9,en;q=0.5"))
	assert.Equal(t, "en", b.Resolve("en-US"))
	assert.Equal(t, "fr", b.Resolve(""))
	assert.Equal(t, "fr", b.Resolve("ja"))
}

func TestNormalize(t *testing.T) {
	b, err := Load(testFS(), "locales", "fr", []string{"fr", "en"})
	require.NoError(t, err)

	assert.Equal(t, "en", b.Normalize("EN"))
	assert.Equal(t, "fr", b.Normalize("fr-BE"))
	assert.Equal(t, "", b.Normalize("nl"))
}
