package domain

import (
	"net/url"
	"strings"
	"time"
)

// Bookmark is a single saved URL owned by one user.
// The authoritative copy lives in the store; in-memory lists
// (see internal/liststore) are eventually-consistent views of it.
type Bookmark struct {
	// ID is the canonical unique identifier, assigned at creation.
	ID string `json:"id"`

	// UserID is the owning user. Every query and mutation is scoped by it.
	UserID string `json:"user_id"`

	// URL is the absolute URL, normalized at creation.
	URL string `json:"url"`

	// Title is the display string. Defaults to the URL hostname.
	Title string `json:"title"`

	// CreatedAt is assigned by the store at creation.
	// Lists are ordered newest-first by this value.
	CreatedAt time.Time `json:"created_at"`
}

// NormalizeURL trims the input and prefixes https:// when no http/https
// scheme is present. Returns "" for blank input.
func NormalizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		s = "https://" + s
	}
	return s
}

// ResolveTitle returns the trimmed title, falling back to the hostname of
// the (already normalized) URL, then to the URL string itself.
func ResolveTitle(title, normalizedURL string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	if u, err := url.Parse(normalizedURL); err == nil && u.Hostname() != "" {
		return u.Hostname()
	}
	return normalizedURL
}

// DisplayDomain returns the hostname with a leading "www." stripped.
// Falls back to the raw stored string when the URL does not parse.
func DisplayDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return rawURL
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// DisplayDate formats a creation timestamp for list rows.
func DisplayDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}
