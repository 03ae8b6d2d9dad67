// Package i18n loads the embedded locale catalogs and renders localized text.
// Messages are registered with golang.org/x/text/message so that printers
// format numbers for the selected language.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the source locale every other catalog is checked against
const BaseLocale = "en"

//go:embed locales/*.yaml
var embeddedFS embed.FS

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Bundle holds the messages of every loaded locale
type Bundle struct {
	locales map[string]map[string]string
	tags    []language.Tag
	matcher language.Matcher
}

var (
	defaultOnce   sync.Once
	defaultBundle *Bundle
	defaultErr    error
)

// Default returns the embedded bundle, loading and registering it on first use
func Default() *Bundle {
	defaultOnce.Do(func() {
		defaultBundle, defaultErr = LoadFromFS(embeddedFS)
		if defaultErr == nil {
			defaultErr = defaultBundle.Register()
		}
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("i18n: load embedded catalogs: %v", defaultErr))
	}
	return defaultBundle
}

// LoadFromFS loads locales/*.yaml from the provided filesystem
func LoadFromFS(catalogFS fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(catalogFS, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	b := &Bundle{locales: map[string]map[string]string{}}
	for _, p := range paths {
		data, err := fs.ReadFile(catalogFS, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := b.addFile(p, file); err != nil {
			return nil, err
		}
	}

	base, ok := b.locales[BaseLocale]
	if !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	for locale, messages := range b.locales {
		for key := range messages {
			if _, known := base[key]; !known {
				return nil, fmt.Errorf("catalog %s: key %q is not defined in base locale", locale, key)
			}
		}
	}

	b.buildMatcher()
	return b, nil
}

func (b *Bundle) addFile(p string, file catalogFile) error {
	fromPath := strings.TrimSuffix(path.Base(p), path.Ext(p))
	locale := strings.TrimSpace(file.Locale)
	if locale == "" {
		return fmt.Errorf("catalog %s: locale is required", p)
	}
	if locale != fromPath {
		return fmt.Errorf("catalog %s: locale %q must match file name %q", p, locale, fromPath)
	}
	if _, err := language.Parse(locale); err != nil {
		return fmt.Errorf("catalog %s: parse locale tag: %w", p, err)
	}
	if len(file.Messages) == 0 {
		return fmt.Errorf("catalog %s: messages map is required", p)
	}

	messages := make(map[string]string, len(file.Messages))
	for key, value := range file.Messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("catalog %s: message key cannot be blank", p)
		}
		messages[key] = value
	}
	b.locales[locale] = messages
	return nil
}

// buildMatcher orders tags with the base locale first so it wins on no match
func (b *Bundle) buildMatcher() {
	b.tags = []language.Tag{language.MustParse(BaseLocale)}
	for _, locale := range b.Locales() {
		if locale != BaseLocale {
			b.tags = append(b.tags, language.MustParse(locale))
		}
	}
	b.matcher = language.NewMatcher(b.tags)
}

// Register registers all messages with x/text/message. Keys missing from a
// locale are registered with the base locale's text.
func (b *Bundle) Register() error {
	base := b.locales[BaseLocale]
	for _, tag := range b.tags {
		messages := b.locales[tag.String()]
		for key, fallback := range base {
			msg, ok := messages[key]
			if !ok {
				msg = fallback
			}
			if err := message.SetString(tag, key, msg); err != nil {
				return fmt.Errorf("register %s/%s: %w", tag, key, err)
			}
		}
	}
	return nil
}

// Locales returns all available locale identifiers, sorted
func (b *Bundle) Locales() []string {
	out := make([]string, 0, len(b.locales))
	for locale := range b.locales {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Keys returns every message key of the base locale, sorted
func (b *Bundle) Keys() []string {
	base := b.locales[BaseLocale]
	out := make([]string, 0, len(base))
	for key := range base {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// Has reports whether locale defines key itself, without fallback
func (b *Bundle) Has(locale, key string) bool {
	_, ok := b.locales[locale][key]
	return ok
}

// Match resolves a language preference ("de", "fr-CH", "de-DE,de;q=0.9") to a
// supported tag, falling back to the base locale.
func (b *Bundle) Match(preference string) language.Tag {
	preference = strings.TrimSpace(preference)
	if preference == "" {
		return b.tags[0]
	}
	tags, _, err := language.ParseAcceptLanguage(preference)
	if err != nil || len(tags) == 0 {
		return b.tags[0]
	}
	_, idx, confidence := b.matcher.Match(tags...)
	if confidence == language.No {
		return b.tags[0]
	}
	return b.tags[idx]
}

// Printer returns a message printer for the best match of preference
func (b *Bundle) Printer(preference string) *message.Printer {
	return message.NewPrinter(b.Match(preference))
}

// Text renders key for the preferred language
func (b *Bundle) Text(preference, key string, args ...interface{}) string {
	return b.Printer(preference).Sprintf(key, args...)
}

// Match resolves a language preference against the default bundle
func Match(preference string) language.Tag {
	return Default().Match(preference)
}

// Printer returns a printer from the default bundle
func Printer(preference string) *message.Printer {
	return Default().Printer(preference)
}

// Text renders key from the default bundle
func Text(preference, key string, args ...interface{}) string {
	return Default().Text(preference, key, args...)
}
