// Package i18n holds the translation tables and the persisted language preference.
package i18n

import (
	"fmt"
	"log/slog"
	"regexp"
	"sync"

	"golang.org/x/text/language"

	"AIToolbox/internal/storage"
)

// Language is a supported locale code
type Language string

const (
	English Language = "en"
	Spanish Language = "es"
)

// Default is used when no valid preference is stored
const Default = English

// StorageKey is the store entry holding the language preference
const StorageKey = "language"

// Languages maps each supported locale to its native display name
var Languages = map[Language]string{
	English: "English",
	Spanish: "Español",
}

var tokenPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

var matcher = language.NewMatcher([]language.Tag{
	language.English, // first entry is the fallback
	language.Spanish,
})

// ParseLanguage reports whether s is a supported locale code
func ParseLanguage(s string) (Language, bool) {
	lang := Language(s)
	_, ok := Languages[lang]
	return lang, ok
}

// Negotiate picks the best supported locale for an Accept-Language header
func Negotiate(acceptLanguage string) Language {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, _ := matcher.Match(tags...)
	switch idx {
	case 1:
		return Spanish
	default:
		return English
	}
}

// Translate looks up key for lang, falling back to the default locale and
// then to the key itself. Each {{name}} with a value in subs is replaced;
// other tokens stay as they are.
func Translate(lang Language, key string, subs map[string]any) string {
	text, ok := translations[lang][key]
	if !ok || text == "" {
		text, ok = translations[Default][key]
		if !ok || text == "" {
			text = key
		}
	}
	if len(subs) == 0 {
		return text
	}
	// one pass, so substituted values are never rescanned
	return tokenPattern.ReplaceAllStringFunc(text, func(token string) string {
		value, ok := subs[token[2:len(token)-2]]
		if !ok {
			return token
		}
		return fmt.Sprint(value)
	})
}

// Localizer translates with the active language and persists changes to it
type Localizer struct {
	mu     sync.RWMutex
	lang   Language
	store  storage.Store
	logger *slog.Logger
}

// NewLocalizer loads the stored preference; absent, invalid or unreadable
// values fall back to Default.
func NewLocalizer(store storage.Store, logger *slog.Logger) *Localizer {
	l := &Localizer{lang: Default, store: store, logger: logger}

	raw, ok, err := store.Get(StorageKey)
	if err != nil {
		logger.Warn("failed to read language preference", "error", err)
		return l
	}
	if !ok {
		return l
	}
	if lang, valid := ParseLanguage(raw); valid {
		l.lang = lang
	} else {
		logger.Warn("ignoring invalid language preference", "value", raw)
	}
	return l
}

// Language returns the active locale
func (l *Localizer) Language() Language {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lang
}

// SetLanguage switches the active locale and persists it
func (l *Localizer) SetLanguage(lang Language) error {
	if _, ok := Languages[lang]; !ok {
		return fmt.Errorf("unsupported language: %q", lang)
	}

	l.mu.Lock()
	l.lang = lang
	l.mu.Unlock()

	if err := l.store.Set(StorageKey, string(lang)); err != nil {
		l.logger.Warn("failed to persist language preference", "language", lang, "error", err)
	}
	return nil
}

// T translates key in the active locale
func (l *Localizer) T(key string, subs map[string]any) string {
	return Translate(l.Language(), key, subs)
}
