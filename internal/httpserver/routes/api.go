package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/smartmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/smartmarks/internal/httpserver/handlers"
)

func init() { Register(registerAPI) }

func registerAPI(r chi.Router, d deps.Deps) {
	r.Route("/api", func(api chi.Router) {
		api.Post("/bookmarks", handlers.AddBookmark(d))
		api.Delete("/bookmarks/{id}", handlers.DeleteBookmark(d))
		api.Get("/bookmarks/export", handlers.ExportBookmarks(d))
		api.Post("/bookmarks/import", handlers.ImportBookmarks(d))
		api.Get("/stream", handlers.Stream(d))
	})
}
