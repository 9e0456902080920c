package marksfile

import (
	"testing"
	"time"

	"github.com/MrSnakeDoc/smartmarks/internal/domain"
)

func TestParse(t *testing.T) {
	data := []byte(`
bookmarks:
  - title: Example
    href: https://example.com
  - href: https://bare.example.com
`)

	f, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(f.Bookmarks) != 2 {
		t.Fatalf("Parse() entries = %d, want 2", len(f.Bookmarks))
	}
	if f.Bookmarks[0].Title != "Example" || f.Bookmarks[0].Href != "https://example.com" {
		t.Errorf("Parse() first entry = %+v", f.Bookmarks[0])
	}
	if f.Bookmarks[1].Title != "" {
		t.Errorf("Parse() second entry title = %q, want empty", f.Bookmarks[1].Title)
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse([]byte("bookmarks: {not a list")); err == nil {
		t.Fatal("Parse() expected error for malformed yaml")
	}
}

func TestRenderRoundTrip(t *testing.T) {
	marks := []*domain.Bookmark{
		{ID: "1", URL: "https://example.com", Title: "Example", CreatedAt: time.Now()},
		{ID: "2", URL: "https://foo.bar", Title: "Foo", CreatedAt: time.Now()},
	}

	data, err := Render(marks)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	f, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(f.Bookmarks) != 2 {
		t.Fatalf("round trip entries = %d, want 2", len(f.Bookmarks))
	}
	if f.Bookmarks[0].Href != "https://example.com" || f.Bookmarks[1].Title != "Foo" {
		t.Errorf("round trip lost fields: %+v", f.Bookmarks)
	}
}
