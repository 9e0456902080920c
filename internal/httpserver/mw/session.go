package mw

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/MrSnakeDoc/smartmarks/internal/auth"
	"github.com/MrSnakeDoc/smartmarks/internal/domain"
	"github.com/MrSnakeDoc/smartmarks/internal/logger"
)

// SessionCookie is the name of the cookie carrying the session token
const SessionCookie = "sm_session"

type ctxKey int

const userCtxKey ctxKey = iota

// UserResolver resolves a session token to its user. The second return
// reports that the session was refreshed and the cookie must be rewritten.
// *auth.Service satisfies it.
type UserResolver interface {
	CurrentUser(ctx context.Context, token string) (*domain.User, bool, error)
}

// GuardConfig defines the routing decisions of the session guard.
type GuardConfig struct {
	LoginPath    string        // the unauthenticated entry page (ex: "/")
	AppPrefix    string        // protected page prefix (ex: "/bookmarks")
	APIPrefix    string        // protected API prefix (ex: "/api/")
	CookieTTL    time.Duration // expiry written on refreshed cookies
	CookieSecure bool
}

// Guard resolves the session on every request before any handler runs.
// Unauthenticated requests to protected paths are redirected to the login
// path (pages) or answered 401 (API); authenticated requests to the login
// path are redirected into the app. A refreshed session rewrites the cookie
// on every exit path, redirects included. If the auth backend is
// unreachable the guard fails closed and treats the request as
// unauthenticated.
func Guard(resolver UserResolver, cfg GuardConfig, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)

			var user *domain.User
			if token != "" {
				resolved, refreshed, err := resolver.CurrentUser(r.Context(), token)
				switch {
				case err == nil:
					user = resolved
					if refreshed {
						// Before any status is written so the rewritten
						// cookie survives pass, redirect and 401 alike.
						SetSessionCookie(w, token, time.Now().Add(cfg.CookieTTL), cfg.CookieSecure)
					}
				case errors.Is(err, auth.ErrNoSession):
					// Expired or unknown token: drop the stale cookie.
					ClearSessionCookie(w, cfg.CookieSecure)
				default:
					// Auth backend unreachable: fail closed.
					log.Warn("auth check failed, treating request as unauthenticated",
						logger.String("path", r.URL.Path),
						logger.Error(err))
				}
			}

			path := r.URL.Path

			if user == nil {
				if strings.HasPrefix(path, cfg.APIPrefix) {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusUnauthorized)
					_ = json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
					return
				}
				if strings.HasPrefix(path, cfg.AppPrefix) {
					http.Redirect(w, r, cfg.LoginPath, http.StatusFound)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			if path == cfg.LoginPath {
				http.Redirect(w, r, cfg.AppPrefix, http.StatusFound)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// WithUser stores the authenticated user in the context
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userCtxKey, user)
}

// UserFrom returns the authenticated user placed in the context by Guard
func UserFrom(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userCtxKey).(*domain.User)
	return user, ok
}

// SetSessionCookie writes the session cookie
func SetSessionCookie(w http.ResponseWriter, token string, expires time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}
