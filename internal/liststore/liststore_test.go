package liststore

import (
	"fmt"
	"testing"
	"time"

	"github.com/MrSnakeDoc/smartmarks/internal/domain"
)

func mark(id string) *domain.Bookmark {
	return &domain.Bookmark{
		ID:        id,
		UserID:    "user-1",
		URL:       "https://" + id + ".example.com",
		Title:     id,
		CreatedAt: time.Now(),
	}
}

func ids(items []*domain.Bookmark) []string {
	out := make([]string, len(items))
	for i, b := range items {
		out[i] = b.ID
	}
	return out
}

func assertOrder(t *testing.T, got []*domain.Bookmark, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("list length = %d, want %d (got %v)", len(got), len(want), ids(got))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Errorf("list[%d] = %s, want %s (got %v)", i, got[i].ID, want[i], ids(got))
		}
	}
}

func TestApplyInsertPrepends(t *testing.T) {
	l := New()
	l.Init([]*domain.Bookmark{mark("b"), mark("a")})

	if !l.ApplyInsert(mark("c")) {
		t.Fatal("ApplyInsert() = false, want true for a new id")
	}

	assertOrder(t, l.Snapshot(), []string{"c", "b", "a"})
}

func TestApplyInsertIdempotent(t *testing.T) {
	l := New()
	l.Init([]*domain.Bookmark{mark("b"), mark("a")})

	// Same id again, e.g. the echoed notification of a write already
	// merged from the acknowledgment path.
	if l.ApplyInsert(mark("b")) {
		t.Fatal("ApplyInsert() = true, want false for a duplicate id")
	}

	assertOrder(t, l.Snapshot(), []string{"b", "a"})
}

func TestApplyDelete(t *testing.T) {
	l := New()
	l.Init([]*domain.Bookmark{mark("c"), mark("b"), mark("a")})

	if !l.ApplyDelete("b") {
		t.Fatal("ApplyDelete() = false, want true for a present id")
	}
	assertOrder(t, l.Snapshot(), []string{"c", "a"})

	// Second delete of the same id is an explicit no-op.
	if l.ApplyDelete("b") {
		t.Fatal("ApplyDelete() = true, want false on a repeated delete")
	}
	assertOrder(t, l.Snapshot(), []string{"c", "a"})
}

func TestApplyDeleteAbsent(t *testing.T) {
	l := New()
	l.Init([]*domain.Bookmark{mark("a")})

	if l.ApplyDelete("missing") {
		t.Fatal("ApplyDelete() = true, want false for an absent id")
	}
	assertOrder(t, l.Snapshot(), []string{"a"})
}

func TestOrderPreservation(t *testing.T) {
	l := New()
	l.Init([]*domain.Bookmark{mark("e"), mark("d"), mark("c"), mark("b"), mark("a")})

	// A mixed sequence of merges must never reorder untouched entries.
	l.ApplyInsert(mark("f"))
	l.ApplyDelete("c")
	l.ApplyInsert(mark("g"))
	l.ApplyDelete("e")

	assertOrder(t, l.Snapshot(), []string{"g", "f", "d", "b", "a"})
}

func TestRaceConvergence(t *testing.T) {
	// A local add acknowledgment and its remote echo must converge to one
	// entry regardless of which is applied first.
	tests := []struct {
		name  string
		first string
		then  string
	}{
		{name: "ack before echo", first: "ack", then: "echo"},
		{name: "echo before ack", first: "echo", then: "ack"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New()
			l.Init([]*domain.Bookmark{mark("old")})

			b := mark("new")
			firstChanged := l.ApplyInsert(b)
			secondChanged := l.ApplyInsert(b)

			if !firstChanged || secondChanged {
				t.Errorf("changed = (%v, %v), want (true, false)", firstChanged, secondChanged)
			}
			assertOrder(t, l.Snapshot(), []string{"new", "old"})
		})
	}
}

func TestInitReplacesPreviousContent(t *testing.T) {
	l := New()
	l.Init([]*domain.Bookmark{mark("a")})
	l.Init([]*domain.Bookmark{mark("c"), mark("b")})

	assertOrder(t, l.Snapshot(), []string{"c", "b"})
}

func TestSnapshotIsACopy(t *testing.T) {
	l := New()
	l.Init([]*domain.Bookmark{mark("a")})

	snap := l.Snapshot()
	snap[0] = mark("mutated")

	assertOrder(t, l.Snapshot(), []string{"a"})
}

func TestConcurrentMerges(t *testing.T) {
	l := New()

	done := make(chan struct{})
	for w := 0; w < 4; w++ {
		go func(w int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 100; i++ {
				id := fmt.Sprintf("w%d-%d", w, i)
				l.ApplyInsert(mark(id))
				if i%2 == 0 {
					l.ApplyDelete(id)
				}
			}
		}(w)
	}
	for w := 0; w < 4; w++ {
		<-done
	}

	// Each worker leaves its odd-numbered inserts behind.
	if got := l.Len(); got != 4*50 {
		t.Errorf("Len() = %d, want %d", got, 4*50)
	}
}
