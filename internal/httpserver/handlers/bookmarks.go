package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/smartmarks/internal/domain"
	"github.com/MrSnakeDoc/smartmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/smartmarks/internal/httpserver/mw"
	"github.com/MrSnakeDoc/smartmarks/internal/logger"
)

type addBookmarkRequest struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

type apiError struct {
	Error string `json:"error"`
}

// AddBookmark creates a bookmark for the signed-in user. A blank URL is a
// no-op, not an error. The list is updated only after the durable write
// acknowledges: the created row is returned to the caller and echoed to
// every live session through the change channel; duplicate suppression by
// id makes both paths converge on one entry.
func AddBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := mw.UserFrom(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		var req addBookmarkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		normalized := domain.NormalizeURL(req.URL)
		if normalized == "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		title := domain.ResolveTitle(req.Title, normalized)

		bookmark, err := d.Store.CreateBookmark(r.Context(), user.ID, normalized, title)
		if err != nil {
			d.Logger.Error("failed to create bookmark",
				logger.String("user_id", user.ID),
				logger.Error(err))
			writeJSONError(w, http.StatusBadGateway, "Failed to add bookmark. Please try again.")
			return
		}

		d.Publisher.BookmarkInserted(r.Context(), bookmark)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(bookmark)
	}
}

// DeleteBookmark removes a bookmark scoped by id and owner. Absent ids and
// rows owned by someone else are no-ops. Removal reaches the caller's list
// through the change channel once the deletion is durable, never before.
func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := mw.UserFrom(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		id := chi.URLParam(r, "id")

		removed, err := d.Store.DeleteBookmark(r.Context(), id, user.ID)
		if err != nil {
			d.Logger.Error("failed to delete bookmark",
				logger.String("user_id", user.ID),
				logger.String("bookmark_id", id),
				logger.Error(err))
			writeJSONError(w, http.StatusBadGateway, "Failed to delete bookmark.")
			return
		}

		if removed {
			d.Publisher.BookmarkDeleted(r.Context(), user.ID, id)
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiError{Error: msg})
}
