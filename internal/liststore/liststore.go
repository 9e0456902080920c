// Package liststore holds the reconciled in-memory bookmark list of one
// user. The list merges two event sources touching the same state: the
// acknowledgment of this session's own durable writes, and asynchronous
// change notifications from any session (including echoes of local writes).
// Duplicate suppression by id is what makes the interleaving safe: no
// matter which of the two arrives first, the list holds exactly one copy.
package liststore

import (
	"sync"

	"github.com/MrSnakeDoc/smartmarks/internal/domain"
)

// List is an ordered, duplicate-suppressed set of bookmarks, newest first.
// Merge operations only ever prepend or filter out, so the relative order
// of untouched entries is preserved across any sequence of events.
type List struct {
	mu    sync.RWMutex
	items []*domain.Bookmark
}

// New creates an empty list
func New() *List {
	return &List{}
}

// Init seeds the list from a server-provided snapshot, already sorted
// newest-first and scoped to the user. Replaces any previous content.
func (l *List) Init(snapshot []*domain.Bookmark) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = make([]*domain.Bookmark, len(snapshot))
	copy(l.items, snapshot)
}

// ApplyInsert merges an inserted record. If a bookmark with the same id is
// already present the event is ignored, otherwise the record is prepended.
// Reports whether the list changed.
func (l *List) ApplyInsert(b *domain.Bookmark) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, item := range l.items {
		if item.ID == b.ID {
			return false
		}
	}

	l.items = append([]*domain.Bookmark{b}, l.items...)
	return true
}

// ApplyDelete removes any bookmark with the given id. A miss is a no-op,
// which also makes two near-simultaneous deletes of the same id safe.
// Reports whether the list changed.
func (l *List) ApplyDelete(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, item := range l.items {
		if item.ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether a bookmark with the given id is present
func (l *List) Contains(id string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, item := range l.items {
		if item.ID == id {
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the current list, newest first
func (l *List) Snapshot() []*domain.Bookmark {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*domain.Bookmark, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of bookmarks in the list
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.items)
}
