package handlers

import (
	"context"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/MrSnakeDoc/smartmarks/internal/domain"
	"github.com/MrSnakeDoc/smartmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/smartmarks/internal/httpserver/mw"
	"github.com/MrSnakeDoc/smartmarks/internal/liststore"
	"github.com/MrSnakeDoc/smartmarks/internal/logger"
	"github.com/MrSnakeDoc/smartmarks/internal/notify"
	"github.com/MrSnakeDoc/smartmarks/internal/utils"
)

type streamFrame struct {
	Type     string           `json:"type"`
	Status   notify.Status    `json:"status,omitempty"`
	Bookmark *domain.Bookmark `json:"bookmark,omitempty"`
	ID       string           `json:"id,omitempty"`
}

// Stream upgrades the request to a WebSocket and forwards the user's
// bookmark changes for the life of the connection.
//
// Ordering matters here: the change channel is subscribed first, the list
// snapshot is read second. Any write landing between the two shows up in
// both the snapshot and the event stream, and the per-connection list
// suppresses the duplicate by id. Subscribing after snapshotting would
// open a window where a write is missed entirely.
func Stream(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := mw.UserFrom(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			d.Logger.Warn("websocket upgrade failed",
				logger.String("user_id", user.ID),
				logger.Error(err))
			return
		}
		defer conn.Close(websocket.StatusInternalError, "stream terminated")

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		statusCh := make(chan notify.Status, 4)
		onStatus := func(s notify.Status) {
			select {
			case statusCh <- s:
			default:
			}
		}

		sub, err := notify.Subscribe(ctx, d.RedisClient, user.ID, onStatus, d.Logger)
		if err != nil {
			d.Logger.Error("failed to open change subscription",
				logger.String("user_id", user.ID),
				logger.Error(err))
			conn.Close(websocket.StatusInternalError, "subscription unavailable")
			return
		}
		defer utils.Close(sub)

		snapshot, err := d.Store.ListBookmarks(ctx, user.ID)
		if err != nil {
			d.Logger.Error("failed to load bookmark snapshot",
				logger.String("user_id", user.ID),
				logger.Error(err))
			conn.Close(websocket.StatusInternalError, "snapshot unavailable")
			return
		}

		list := liststore.New()
		list.Init(snapshot)

		// Replay the snapshot oldest first so prepend-merging on the client
		// leaves it newest first. Rows already rendered on the page are
		// suppressed there by id.
		for i := len(snapshot) - 1; i >= 0; i-- {
			if err := wsjson.Write(ctx, conn, streamFrame{Type: "insert", Bookmark: snapshot[i]}); err != nil {
				return
			}
		}

		// The client never sends application frames; reads exist only to
		// notice the peer going away.
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.Read(ctx); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-ctx.Done():
				conn.Close(websocket.StatusNormalClosure, "")
				return

			case s := <-statusCh:
				if err := wsjson.Write(ctx, conn, streamFrame{Type: "status", Status: s}); err != nil {
					return
				}

			case ev, ok := <-sub.Events():
				if !ok {
					conn.Close(websocket.StatusNormalClosure, "")
					return
				}

				switch ev.Type {
				case notify.EventInsert:
					if ev.Bookmark == nil || !list.ApplyInsert(ev.Bookmark) {
						continue
					}
					if err := wsjson.Write(ctx, conn, streamFrame{Type: "insert", Bookmark: ev.Bookmark}); err != nil {
						return
					}

				case notify.EventDelete:
					if !list.ApplyDelete(ev.ID) {
						continue
					}
					if err := wsjson.Write(ctx, conn, streamFrame{Type: "delete", ID: ev.ID}); err != nil {
						return
					}
				}
			}
		}
	}
}
