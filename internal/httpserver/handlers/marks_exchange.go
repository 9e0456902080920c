package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/MrSnakeDoc/smartmarks/internal/domain"
	"github.com/MrSnakeDoc/smartmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/smartmarks/internal/httpserver/mw"
	"github.com/MrSnakeDoc/smartmarks/internal/logger"
	"github.com/MrSnakeDoc/smartmarks/internal/marksfile"
)

const maxImportBytes = 1 << 20

type importResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ExportBookmarks renders the user's collection as a downloadable YAML file,
// newest first.
func ExportBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := mw.UserFrom(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		bookmarks, err := d.Store.ListBookmarks(r.Context(), user.ID)
		if err != nil {
			d.Logger.Error("failed to list bookmarks for export",
				logger.String("user_id", user.ID),
				logger.Error(err))
			writeJSONError(w, http.StatusBadGateway, "Failed to export bookmarks.")
			return
		}

		data, err := marksfile.Render(bookmarks)
		if err != nil {
			d.Logger.Error("failed to render export",
				logger.String("user_id", user.ID),
				logger.Error(err))
			writeJSONError(w, http.StatusInternalServerError, "Failed to export bookmarks.")
			return
		}

		w.Header().Set("Content-Type", "application/yaml")
		w.Header().Set("Content-Disposition", `attachment; filename="bookmarks.yaml"`)
		_, _ = w.Write(data)
	}
}

// ImportBookmarks reads a YAML exchange file and adds every entry through
// the normal add pipeline. Entries without an href are counted as skipped.
// Each imported row is published to the change channel, so live sessions
// see the import as it lands.
func ImportBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := mw.UserFrom(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		file, err := marksfile.Parse(body)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid bookmarks file")
			return
		}

		var res importResult
		for _, entry := range file.Bookmarks {
			normalized := domain.NormalizeURL(entry.Href)
			if normalized == "" {
				res.Skipped++
				continue
			}
			title := domain.ResolveTitle(entry.Title, normalized)

			bookmark, err := d.Store.CreateBookmark(r.Context(), user.ID, normalized, title)
			if err != nil {
				d.Logger.Error("failed to import bookmark",
					logger.String("user_id", user.ID),
					logger.String("url", normalized),
					logger.Error(err))
				res.Skipped++
				continue
			}

			d.Publisher.BookmarkInserted(r.Context(), bookmark)
			res.Imported++
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(res)
	}
}
