package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/smartmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/smartmarks/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/smartmarks/internal/httpserver/mw"
)

func init() { Register(registerAuth) }

func registerAuth(r chi.Router, d deps.Deps) {
	limit := mw.RateLimit(mw.RateLimitConfig{
		Burst:         d.LoginRateBurst,
		RefillPerMin:  d.LoginRatePerMin,
		MaxEntries:    10000,
		SweepInterval: time.Minute,
		IdleTTL:       15 * time.Minute,
		TrustProxy:    d.TrustProxy,
	})

	r.With(limit).Post("/auth/signin", handlers.SignIn(d))
	r.With(limit).Post("/auth/signup", handlers.SignUp(d))
	r.Post("/auth/signout", handlers.SignOut(d))
}
