package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/smartmarks/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Redis string `json:"redis"`
}

// Readyz reports whether the service can actually take traffic. All state
// lives in Redis, so readiness is a Redis ping.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := d.RedisClient.Ping(ctx).Err(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(readyzResponse{
				Ready: false,
				Redis: "unreachable",
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(readyzResponse{
			Ready: true,
			Redis: "ok",
		})
	}
}
