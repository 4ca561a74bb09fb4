package i18n

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AIToolbox/internal/storage"
	"AIToolbox/internal/tool"
)

type brokenStore struct{}

func (brokenStore) Get(key string) (string, bool, error) {
	return "", false, &storage.StorageError{Op: "get", Key: key, Err: errors.New("disk gone")}
}

func (brokenStore) Set(key, value string) error {
	return &storage.StorageError{Op: "set", Key: key, Err: errors.New("disk gone")}
}

func (brokenStore) Delete(key string) error {
	return &storage.StorageError{Op: "delete", Key: key, Err: errors.New("disk gone")}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestToolNamesInEveryLocale(t *testing.T) {
	for lang := range Languages {
		for _, id := range tool.All {
			got := Translate(lang, id.TranslationKey(), nil)
			assert.NotEmpty(t, got, "lang=%s tool=%s", lang, id)
			assert.NotEqual(t, id.TranslationKey(), got, "lang=%s tool=%s has no entry", lang, id)
		}
	}
}

func TestTranslateFallback(t *testing.T) {
	// present in Spanish
	assert.Equal(t, "Enviar", Translate(Spanish, "chat.send", nil))
	// missing in Spanish, present in English
	assert.Equal(t, "Image Generation", Translate(Spanish, "imageGen.title", nil))
	// missing everywhere
	assert.Equal(t, "no.such.key", Translate(Spanish, "no.such.key", nil))
	// unknown locale behaves like a locale with no entries
	assert.Equal(t, "Send", Translate(Language("fr"), "chat.send", nil))
}

func TestTranslateSubstitution(t *testing.T) {
	got := Translate(English, "imageEdit.error.noImage", map[string]any{"text": "I can't do that"})
	assert.Equal(t, `The model did not return an image. It said: "I can't do that"`, got)

	got = Translate(English, "sidebar.aria.switchTo", map[string]any{"other": 1})
	assert.Equal(t, "Switch to {{tool}}", got, "unresolved tokens stay verbatim")

	got = Translate(English, "imageEdit.upload.selected", map[string]any{"fileName": 42})
	assert.Equal(t, "Selected: 42", got)
}

func TestTranslateSubstitutesInOnePass(t *testing.T) {
	subs := map[string]any{"a": "{{b}}", "b": "x"}
	for range 20 {
		assert.Equal(t, "{{b}}-x-{{c}}", Translate(English, "{{a}}-{{b}}-{{c}}", subs))
	}
}

func TestNegotiate(t *testing.T) {
	tests := []struct {
		header string
		want   Language
	}{
		{"", English},
		{"es-MX,es;q=0.9,en;q=0.5", Spanish},
		{"en-GB", English},
		{"fr-FR", English},
		{"de, es;q=0.4", Spanish},
		{";;garbage", English},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Negotiate(tt.header), "header %q", tt.header)
	}
}

func TestLocalizerPreference(t *testing.T) {
	store := storage.NewMemoryStore()

	l := NewLocalizer(store, discardLogger())
	assert.Equal(t, English, l.Language())

	require.NoError(t, l.SetLanguage(Spanish))
	assert.Equal(t, "Limpiar Chat", l.T("chat.clear", nil))

	raw, ok, err := store.Get(StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "es", raw)

	reloaded := NewLocalizer(store, discardLogger())
	assert.Equal(t, Spanish, reloaded.Language())

	require.Error(t, l.SetLanguage(Language("xx")))
	assert.Equal(t, Spanish, l.Language())
}

func TestLocalizerInvalidOrBrokenStore(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(StorageKey, "klingon"))
	assert.Equal(t, English, NewLocalizer(store, discardLogger()).Language())

	l := NewLocalizer(brokenStore{}, discardLogger())
	assert.Equal(t, English, l.Language())
	require.NoError(t, l.SetLanguage(Spanish), "storage failures are not surfaced")
	assert.Equal(t, Spanish, l.Language())
}
