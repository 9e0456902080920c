package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/MrSnakeDoc/smartmarks/internal/auth"
	"github.com/MrSnakeDoc/smartmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/smartmarks/internal/httpserver/mw"
	"github.com/MrSnakeDoc/smartmarks/internal/logger"
)

// SignIn handles the login form: verify credentials, open a session, set
// the cookie and enter the app. Failures bounce back to the login page
// with an error code and the entered email preserved.
func SignIn(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, password := credentials(r)

		_, session, err := d.Auth.SignIn(r.Context(), email, password)
		if err != nil {
			redirectLoginError(w, r, d, email, err)
			return
		}

		mw.SetSessionCookie(w, session.Token, session.ExpiresAt, d.CookieSecure)
		http.Redirect(w, r, "/bookmarks", http.StatusSeeOther)
	}
}

// SignUp creates an account and signs it in.
func SignUp(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, password := credentials(r)

		_, session, err := d.Auth.SignUp(r.Context(), email, password)
		if err != nil {
			redirectLoginError(w, r, d, email, err)
			return
		}

		mw.SetSessionCookie(w, session.Token, session.ExpiresAt, d.CookieSecure)
		http.Redirect(w, r, "/bookmarks", http.StatusSeeOther)
	}
}

// SignOut destroys the session and returns to the login page.
func SignOut(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(mw.SessionCookie); err == nil {
			if err := d.Auth.SignOut(r.Context(), cookie.Value); err != nil {
				// The cookie is cleared regardless; the orphaned session
				// expires with its TTL.
				d.Logger.Warn("failed to delete session", logger.Error(err))
			}
		}

		mw.ClearSessionCookie(w, d.CookieSecure)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func credentials(r *http.Request) (string, string) {
	if err := r.ParseForm(); err != nil {
		return "", ""
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	return email, password
}

func redirectLoginError(w http.ResponseWriter, r *http.Request, d deps.Deps, email string, err error) {
	code := "unavailable"
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		code = "credentials"
	case errors.Is(err, auth.ErrEmailTaken):
		code = "taken"
	default:
		d.Logger.Error("auth backend error", logger.Error(err))
	}

	q := url.Values{}
	q.Set("error", code)
	if email != "" {
		q.Set("email", email)
	}
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}
