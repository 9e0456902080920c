// Package marksfile is the YAML exchange format for bookmark collections,
// used by the import/export endpoints.
package marksfile

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/smartmarks/internal/domain"
)

// Entry is a single bookmark in the exchange file
type Entry struct {
	Title string `yaml:"title,omitempty"`
	Href  string `yaml:"href"`
}

// File is the root structure of the exchange format
type File struct {
	Bookmarks []Entry `yaml:"bookmarks"`
}

// Parse decodes an exchange file. Entries without an href are kept here
// and rejected later by the add pipeline, so the caller can report them.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse bookmarks yaml: %w", err)
	}
	return &f, nil
}

// Render encodes a user's bookmarks, newest first, as an exchange file.
func Render(bookmarks []*domain.Bookmark) ([]byte, error) {
	f := File{Bookmarks: make([]Entry, 0, len(bookmarks))}
	for _, b := range bookmarks {
		f.Bookmarks = append(f.Bookmarks, Entry{
			Title: b.Title,
			Href:  b.URL,
		})
	}

	data, err := yaml.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("failed to render bookmarks yaml: %w", err)
	}
	return data, nil
}
