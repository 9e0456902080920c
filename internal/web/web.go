// Package web renders the two pages of the app: the login surface and the
// bookmark list. Templates are embedded so the binary ships self-contained.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/MrSnakeDoc/smartmarks/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// LoginData feeds the login template
type LoginData struct {
	Error string
	Email string
}

// BookmarksData feeds the bookmark list template
type BookmarksData struct {
	UserEmail string
	Bookmarks []*domain.Bookmark
}

// Renderer holds the parsed templates
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates. Display transforms are
// registered as template funcs so rows render the same values the client
// script produces for live inserts.
func NewRenderer() (*Renderer, error) {
	tmpl := template.New("").Funcs(template.FuncMap{
		"displayDomain": domain.DisplayDomain,
		"displayDate":   domain.DisplayDate,
	})

	tmpl, err := tmpl.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Renderer{tmpl: tmpl}, nil
}

// Login renders the login page
func (r *Renderer) Login(w http.ResponseWriter, data LoginData) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return r.tmpl.ExecuteTemplate(w, "login.html", data)
}

// Bookmarks renders the bookmark list page
func (r *Renderer) Bookmarks(w http.ResponseWriter, data BookmarksData) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return r.tmpl.ExecuteTemplate(w, "bookmarks.html", data)
}
