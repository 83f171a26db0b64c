// Package messages resolves localized UI texts from embedded YAML catalogs
// and models the notices and confirmation prompts shown to administrators.
package messages

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed catalogs/*.yaml
var catalogFS embed.FS

// Catalog holds the message texts of every supported locale.
type Catalog struct {
	texts   map[language.Tag]map[string]string
	matcher language.Matcher
	tags    []language.Tag
}

// Load parses the embedded catalogs. English is the fallback locale.
func Load() (*Catalog, error) {
	entries, err := catalogFS.ReadDir("catalogs")
	if err != nil {
		return nil, fmt.Errorf("reading catalogs: %w", err)
	}

	c := &Catalog{texts: make(map[language.Tag]map[string]string)}
	c.tags = append(c.tags, language.English)

	for _, entry := range entries {
		name := entry.Name()
		tag, err := language.Parse(strings.TrimSuffix(name, path.Ext(name)))
		if err != nil {
			return nil, fmt.Errorf("catalog %s: %w", name, err)
		}
		data, err := catalogFS.ReadFile("catalogs/" + name)
		if err != nil {
			return nil, fmt.Errorf("reading catalog %s: %w", name, err)
		}
		texts := map[string]string{}
		if err := yaml.Unmarshal(data, &texts); err != nil {
			return nil, fmt.Errorf("parsing catalog %s: %w", name, err)
		}
		c.texts[tag] = texts
		if tag != language.English {
			c.tags = append(c.tags, tag)
		}
	}

	if _, ok := c.texts[language.English]; !ok {
		return nil, fmt.Errorf("missing fallback catalog %q", language.English)
	}
	c.matcher = language.NewMatcher(c.tags)
	return c, nil
}

// Localizer returns the localizer best matching an Accept-Language header value.
func (c *Catalog) Localizer(acceptLanguage string) *Localizer {
	prefs, _, _ := language.ParseAcceptLanguage(acceptLanguage)
	_, index, _ := c.matcher.Match(prefs...)
	tag := c.tags[index]
	return &Localizer{
		tag:      tag,
		texts:    c.texts[tag],
		fallback: c.texts[language.English],
	}
}

// Localizer resolves message keys for a single locale.
type Localizer struct {
	tag      language.Tag
	texts    map[string]string
	fallback map[string]string
}

// Locale returns the BCP 47 tag of the resolved locale.
func (l *Localizer) Locale() string {
	return l.tag.String()
}

// Get returns the text for key, formatted with args when given.
// Unknown keys are returned unchanged so missing texts stay visible.
func (l *Localizer) Get(key string, args ...any) string {
	text, ok := l.texts[key]
	if !ok {
		if text, ok = l.fallback[key]; !ok {
			return key
		}
	}
	if len(args) > 0 {
		return fmt.Sprintf(text, args...)
	}
	return text
}
