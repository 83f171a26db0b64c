// Package templates renders the HTML pages of the favorites administration.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/giannis84/favorites-admin/internal/handlers"
)

//go:embed pages/*.html
var pageFS embed.FS

// Page names.
const (
	ManageFavorites = "manage_favorites.html"
	CreateFavorite  = "create_favorite.html"
	ModifyFavorite  = "modify_favorite.html"
	AdminMessage    = "admin_message.html"
	Error           = "error.html"
)

var pageNames = []string{ManageFavorites, CreateFavorite, ModifyFavorite, AdminMessage, Error}

// Page is the data every template receives.
type Page struct {
	Title  string
	Locale string
	// Infos are notices already resolved to text.
	Infos  []string
	Errors []handlers.FieldError
	Model  map[string]any

	Translator handlers.Translator
}

func (p Page) translate(key string, args ...any) string {
	if p.Translator == nil {
		return key
	}
	return p.Translator.Get(key, args...)
}

// Renderer executes the embedded page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page together with the shared layout and partials.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		tmpl, err := template.New(name).
			Funcs(template.FuncMap{"t": func(key string, _ ...any) string { return key }}).
			ParseFS(pageFS, "pages/layout.html", "pages/_favorite_form.html", "pages/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Render writes the named page with the given status code. The page is
// rendered to a buffer first so a template failure never leaves a partial body.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) error {
	body, err := r.Execute(name, page)
	if err != nil {
		return err
	}
	return Write(w, status, body)
}

// Execute renders the named page into a buffer.
func (r *Renderer) Execute(name string, page Page) (*bytes.Buffer, error) {
	base, ok := r.pages[name]
	if !ok {
		return nil, fmt.Errorf("unknown template %q", name)
	}
	tmpl, err := base.Clone()
	if err != nil {
		return nil, fmt.Errorf("cloning template %s: %w", name, err)
	}
	tmpl.Funcs(template.FuncMap{"t": page.translate})

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", name, err)
	}
	return &buf, nil
}

// Write sends a rendered page.
func Write(w http.ResponseWriter, status int, body *bytes.Buffer) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := body.WriteTo(w)
	return err
}
