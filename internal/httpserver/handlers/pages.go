package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/smartmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/smartmarks/internal/httpserver/mw"
	"github.com/MrSnakeDoc/smartmarks/internal/logger"
	"github.com/MrSnakeDoc/smartmarks/internal/web"
)

// LoginPage renders the unauthenticated entry page. The session guard
// redirects signed-in users away before this runs.
func LoginPage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := web.LoginData{
			Error: loginError(r.URL.Query().Get("error")),
			Email: r.URL.Query().Get("email"),
		}
		if err := d.Renderer.Login(w, data); err != nil {
			d.Logger.Error("failed to render login page", logger.Error(err))
		}
	}
}

// BookmarksPage fetches the signed-in user's bookmarks newest-first and
// renders the list. The live subscription is opened by the page itself
// against /api/stream.
func BookmarksPage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := mw.UserFrom(r.Context())
		if !ok {
			// The guard only routes authenticated requests here.
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		bookmarks, err := d.Store.ListBookmarks(r.Context(), user.ID)
		if err != nil {
			d.Logger.Error("failed to list bookmarks",
				logger.String("user_id", user.ID),
				logger.Error(err))
			http.Error(w, "failed to load bookmarks", http.StatusBadGateway)
			return
		}

		data := web.BookmarksData{
			UserEmail: user.Email,
			Bookmarks: bookmarks,
		}
		if err := d.Renderer.Bookmarks(w, data); err != nil {
			d.Logger.Error("failed to render bookmarks page", logger.Error(err))
		}
	}
}

// loginError maps the error code carried across the sign-in redirect to a
// user-visible message. Unknown codes render nothing.
func loginError(code string) string {
	switch code {
	case "credentials":
		return "Invalid email or password."
	case "taken":
		return "That email is already registered."
	case "unavailable":
		return "Sign-in is temporarily unavailable. Please try again."
	default:
		return ""
	}
}
