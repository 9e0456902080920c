package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/smartmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/smartmarks/internal/httpserver/handlers"
)

func init() { Register(registerPages) }

func registerPages(r chi.Router, d deps.Deps) {
	r.Get("/", handlers.LoginPage(d))
	r.Get("/bookmarks", handlers.BookmarksPage(d))
}
