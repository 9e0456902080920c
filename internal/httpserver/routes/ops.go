package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/smartmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/smartmarks/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/smartmarks/internal/httpserver/mw"
)

func init() { Register(registerOps) }

func registerOps(r chi.Router, d deps.Deps) {
	admin := mw.AllowOnlyCIDRS(d.AdminCIDRS, d.TrustProxy, d.Logger)
	r.With(admin).Get("/healthz", handlers.Healthz(d))
	r.With(admin).Get("/readyz", handlers.Readyz(d))
	r.With(admin).Post("/ops/sweep", handlers.Sweep(d))
}
