package domain

import (
	"testing"
	"time"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "bare host gets https prefix",
			input:    "example.com",
			expected: "https://example.com",
		},
		{
			name:     "http scheme preserved",
			input:    "http://foo.bar",
			expected: "http://foo.bar",
		},
		{
			name:     "https scheme preserved",
			input:    "https://foo.bar/path?q=1",
			expected: "https://foo.bar/path?q=1",
		},
		{
			name:     "uppercase scheme preserved",
			input:    "HTTPS://example.com",
			expected: "HTTPS://example.com",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  example.com  ",
			expected: "https://example.com",
		},
		{
			name:     "blank input stays blank",
			input:    "   ",
			expected: "",
		},
		{
			name:     "host with path",
			input:    "example.com/a/b",
			expected: "https://example.com/a/b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeURL(tt.input); got != tt.expected {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestResolveTitle(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		url      string
		expected string
	}{
		{
			name:     "explicit title wins",
			title:    "My Site",
			url:      "https://foo.bar",
			expected: "My Site",
		},
		{
			name:     "explicit title trimmed",
			title:    "  My Site  ",
			url:      "https://foo.bar",
			expected: "My Site",
		},
		{
			name:     "empty title falls back to hostname",
			title:    "",
			url:      "https://example.com",
			expected: "example.com",
		},
		{
			name:     "whitespace title falls back to hostname",
			title:    "   ",
			url:      "https://example.com/some/path",
			expected: "example.com",
		},
		{
			name:     "unparseable url falls back to raw string",
			title:    "",
			url:      "https://exa mple.com",
			expected: "https://exa mple.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveTitle(tt.title, tt.url); got != tt.expected {
				t.Errorf("ResolveTitle(%q, %q) = %q, want %q", tt.title, tt.url, got, tt.expected)
			}
		})
	}
}

func TestDisplayDomain(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{
			name:     "plain hostname",
			url:      "https://example.com/path",
			expected: "example.com",
		},
		{
			name:     "leading www stripped",
			url:      "https://www.example.com",
			expected: "example.com",
		},
		{
			name:     "subdomain kept",
			url:      "https://blog.example.com",
			expected: "blog.example.com",
		},
		{
			name:     "unparseable url returns raw string",
			url:      "https://exa mple.com",
			expected: "https://exa mple.com",
		},
		{
			name:     "no hostname returns raw string",
			url:      "not-a-url",
			expected: "not-a-url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayDomain(tt.url); got != tt.expected {
				t.Errorf("DisplayDomain(%q) = %q, want %q", tt.url, got, tt.expected)
			}
		})
	}
}

func TestDisplayDate(t *testing.T) {
	ts := time.Date(2025, time.March, 7, 12, 0, 0, 0, time.UTC)
	if got := DisplayDate(ts); got != "Mar 7, 2025" {
		t.Errorf("DisplayDate() = %q, want %q", got, "Mar 7, 2025")
	}
}
