package messages

import (
	"net/url"
	"strings"
	"testing"
)

func loadCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return c
}

func TestLocalizer_Matching(t *testing.T) {
	c := loadCatalog(t)

	tests := []struct {
		name           string
		acceptLanguage string
		wantLocale     string
		wantTitle      string
	}{
		{name: "no header falls back to english", acceptLanguage: "", wantLocale: "en", wantTitle: "Manage favorites"},
		{name: "french browser", acceptLanguage: "fr-FR,fr;q=0.9,en;q=0.8", wantLocale: "fr", wantTitle: "Gestion des favoris"},
		{name: "unsupported language", acceptLanguage: "de-DE", wantLocale: "en", wantTitle: "Manage favorites"},
		{name: "garbage header", acceptLanguage: ";;;", wantLocale: "en", wantTitle: "Manage favorites"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := c.Localizer(tt.acceptLanguage)
			if !strings.HasPrefix(l.Locale(), tt.wantLocale) {
				t.Errorf("Locale() = %q, want prefix %q", l.Locale(), tt.wantLocale)
			}
			if got := l.Get("module.mydashboard.favorites.manage_favorites.pageTitle"); got != tt.wantTitle {
				t.Errorf("Get() = %q, want %q", got, tt.wantTitle)
			}
		})
	}
}

func TestLocalizer_GetFormatsAndFallsBack(t *testing.T) {
	l := loadCatalog(t).Localizer("en")

	if got := l.Get("favorites.validation.required", "Label"); got != `The field "Label" is required.` {
		t.Errorf("unexpected formatted text: %q", got)
	}
	if got := l.Get("no.such.key"); got != "no.such.key" {
		t.Errorf("expected unknown key to be returned unchanged, got %q", got)
	}
}

func TestCatalogsDefineTheSameKeys(t *testing.T) {
	c := loadCatalog(t)
	var reference map[string]string
	for _, texts := range c.texts {
		if reference == nil {
			reference = texts
			continue
		}
		for key := range reference {
			if _, ok := texts[key]; !ok {
				t.Errorf("key %q missing from a catalog", key)
			}
		}
		if len(texts) != len(reference) {
			t.Errorf("catalog sizes differ: %d vs %d", len(texts), len(reference))
		}
	}
}

func TestNewConfirmation(t *testing.T) {
	msg := NewConfirmation("k", "/admin/favorites", url.Values{"action": {"removeFavorite"}, "id": {"3"}}, "/admin/favorites")

	if !msg.IsConfirmation() {
		t.Error("expected a confirmation message")
	}
	if msg.TargetURL != "/admin/favorites?action=removeFavorite&id=3" {
		t.Errorf("unexpected target url %q", msg.TargetURL)
	}
}
