package integration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/smartmarks/internal/auth"
	"github.com/MrSnakeDoc/smartmarks/internal/logger"
	"github.com/MrSnakeDoc/smartmarks/internal/notify"
	redisstore "github.com/MrSnakeDoc/smartmarks/internal/store/redis"
)

// newTestStore connects to the Redis named by SMARKS_TEST_REDIS_ADDR and
// returns a store on it. Tests are skipped when the variable is unset so
// the suite stays runnable without infrastructure.
func newTestStore(t *testing.T) (*redisstore.Store, *goredis.Client) {
	t.Helper()

	addr := os.Getenv("SMARKS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SMARKS_TEST_REDIS_ADDR not set, skipping integration test")
	}

	client := goredis.NewClient(&goredis.Options{Addr: addr, DB: 15})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("redis at %s not reachable: %v", addr, err)
	}

	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})

	return redisstore.NewStore(client), client
}

func TestAccountAndSessionFlow(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	svc := auth.New(store, 24*time.Hour, time.Hour, logger.New("error", false))

	email := fmt.Sprintf("flow-%d@example.com", time.Now().UnixNano())

	_, session, err := svc.SignUp(ctx, email, "correct horse battery staple")
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if session.Token == "" {
		t.Fatal("SignUp returned an empty session token")
	}

	// Duplicate email must be rejected
	if _, _, err := svc.SignUp(ctx, email, "another password"); !errors.Is(err, auth.ErrEmailTaken) {
		t.Fatalf("duplicate SignUp error = %v, want ErrEmailTaken", err)
	}

	// Fresh session resolves to the account
	user, refreshed, err := svc.CurrentUser(ctx, session.Token)
	if err != nil {
		t.Fatalf("CurrentUser failed: %v", err)
	}
	if user.Email != email {
		t.Errorf("resolved email = %q, want %q", user.Email, email)
	}
	if refreshed {
		t.Error("a brand new session should not need a refresh")
	}

	// Wrong password must not open a session
	if _, _, err := svc.SignIn(ctx, email, "wrong password"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("SignIn with wrong password error = %v, want ErrInvalidCredentials", err)
	}

	// Sign out invalidates the token
	if err := svc.SignOut(ctx, session.Token); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}
	if _, _, err := svc.CurrentUser(ctx, session.Token); !errors.Is(err, auth.ErrNoSession) {
		t.Fatalf("CurrentUser after SignOut error = %v, want ErrNoSession", err)
	}
}

func TestBookmarkLifecycle(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	const userID = "user-lifecycle"

	first, err := store.CreateBookmark(ctx, userID, "https://one.example.com", "one")
	if err != nil {
		t.Fatalf("CreateBookmark failed: %v", err)
	}
	second, err := store.CreateBookmark(ctx, userID, "https://two.example.com", "two")
	if err != nil {
		t.Fatalf("CreateBookmark failed: %v", err)
	}

	list, err := store.ListBookmarks(ctx, userID)
	if err != nil {
		t.Fatalf("ListBookmarks failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("ListBookmarks returned %d rows, want 2", len(list))
	}
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Errorf("expected newest first, got [%s %s]", list[0].ID, list[1].ID)
	}

	// Deletion is scoped by owner
	removed, err := store.DeleteBookmark(ctx, first.ID, "someone-else")
	if err != nil {
		t.Fatalf("DeleteBookmark failed: %v", err)
	}
	if removed {
		t.Error("deletion by a non-owner must not remove the row")
	}

	removed, err = store.DeleteBookmark(ctx, first.ID, userID)
	if err != nil {
		t.Fatalf("DeleteBookmark failed: %v", err)
	}
	if !removed {
		t.Error("deletion by the owner should remove the row")
	}

	// Second delete of the same id is a no-op
	removed, err = store.DeleteBookmark(ctx, first.ID, userID)
	if err != nil {
		t.Fatalf("repeated DeleteBookmark failed: %v", err)
	}
	if removed {
		t.Error("repeated deletion must report nothing removed")
	}

	list, err = store.ListBookmarks(ctx, userID)
	if err != nil {
		t.Fatalf("ListBookmarks failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != second.ID {
		t.Errorf("expected only %s to remain, got %d rows", second.ID, len(list))
	}
}

func TestChangeNotificationRoundTrip(t *testing.T) {
	store, client := newTestStore(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	const userID = "user-notify"
	log := logger.New("error", false)

	sub, err := notify.Subscribe(ctx, client, userID, nil, log)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer func() { _ = sub.Close() }()

	pub := notify.NewPublisher(client, log)

	bookmark, err := store.CreateBookmark(ctx, userID, "https://live.example.com", "live")
	if err != nil {
		t.Fatalf("CreateBookmark failed: %v", err)
	}
	pub.BookmarkInserted(ctx, bookmark)

	select {
	case ev := <-sub.Events():
		if ev.Type != notify.EventInsert {
			t.Fatalf("event type = %q, want insert", ev.Type)
		}
		if ev.Bookmark == nil || ev.Bookmark.ID != bookmark.ID {
			t.Fatal("insert event does not carry the created bookmark")
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for the insert event")
	}

	pub.BookmarkDeleted(ctx, userID, bookmark.ID)

	select {
	case ev := <-sub.Events():
		if ev.Type != notify.EventDelete {
			t.Fatalf("event type = %q, want delete", ev.Type)
		}
		if ev.ID != bookmark.ID {
			t.Errorf("delete event id = %q, want %q", ev.ID, bookmark.ID)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for the delete event")
	}
}
