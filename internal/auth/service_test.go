package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrSnakeDoc/smartmarks/internal/domain"
	"github.com/MrSnakeDoc/smartmarks/internal/logger"
	redisstore "github.com/MrSnakeDoc/smartmarks/internal/store/redis"
)

// fakeStore keeps users and sessions in maps, mimicking the Redis store's
// error contract.
type fakeStore struct {
	users     map[string]*domain.User // id -> user
	byEmail   map[string]string       // email -> id
	sessions  map[string]fakeSession  // token -> session
	ttlOnWire time.Duration           // remaining TTL reported by SessionUser
	failing   bool                    // simulate an unreachable backend
}

type fakeSession struct {
	userID string
	ttl    time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[string]*domain.User),
		byEmail:  make(map[string]string),
		sessions: make(map[string]fakeSession),
	}
}

var errBackendDown = errors.New("backend down")

func (f *fakeStore) CreateUser(_ context.Context, user *domain.User) error {
	if f.failing {
		return errBackendDown
	}
	if _, taken := f.byEmail[user.Email]; taken {
		return redisstore.ErrEmailTaken
	}
	f.users[user.ID] = user
	f.byEmail[user.Email] = user.ID
	return nil
}

func (f *fakeStore) GetUser(_ context.Context, id string) (*domain.User, error) {
	if f.failing {
		return nil, errBackendDown
	}
	user, ok := f.users[id]
	if !ok {
		return nil, redisstore.ErrNotFound
	}
	return user, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	if f.failing {
		return nil, errBackendDown
	}
	id, ok := f.byEmail[email]
	if !ok {
		return nil, redisstore.ErrNotFound
	}
	return f.users[id], nil
}

func (f *fakeStore) CreateSession(_ context.Context, token, userID string, ttl time.Duration) error {
	if f.failing {
		return errBackendDown
	}
	f.sessions[token] = fakeSession{userID: userID, ttl: ttl}
	return nil
}

func (f *fakeStore) SessionUser(_ context.Context, token string) (string, time.Duration, error) {
	if f.failing {
		return "", 0, errBackendDown
	}
	sess, ok := f.sessions[token]
	if !ok {
		return "", 0, redisstore.ErrNotFound
	}
	ttl := sess.ttl
	if f.ttlOnWire != 0 {
		ttl = f.ttlOnWire
	}
	return sess.userID, ttl, nil
}

func (f *fakeStore) RefreshSession(_ context.Context, token string, ttl time.Duration) error {
	if f.failing {
		return errBackendDown
	}
	sess, ok := f.sessions[token]
	if !ok {
		return redisstore.ErrNotFound
	}
	sess.ttl = ttl
	f.sessions[token] = sess
	return nil
}

func (f *fakeStore) DeleteSession(_ context.Context, token string) error {
	if f.failing {
		return errBackendDown
	}
	delete(f.sessions, token)
	return nil
}

func newService(store Store) *Service {
	return New(store, 24*time.Hour, time.Hour, logger.New("error", false))
}

func TestSignUpAndSignIn(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)
	ctx := context.Background()

	user, session, err := svc.SignUp(ctx, "a@example.com", "hunter22")
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	if user.ID == "" || session.Token == "" {
		t.Fatal("SignUp() returned empty user id or token")
	}
	if user.PasswordHash == "hunter22" {
		t.Fatal("password stored in clear")
	}

	got, _, err := svc.SignIn(ctx, "a@example.com", "hunter22")
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("SignIn() user = %s, want %s", got.ID, user.ID)
	}
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)
	ctx := context.Background()

	if _, _, err := svc.SignUp(ctx, "a@example.com", "hunter22"); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "wrong password", email: "a@example.com", password: "wrong"},
		{name: "unknown email", email: "nobody@example.com", password: "hunter22"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := svc.SignIn(ctx, tt.email, tt.password); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("SignIn() error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)
	ctx := context.Background()

	if _, _, err := svc.SignUp(ctx, "a@example.com", "hunter22"); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	if _, _, err := svc.SignUp(ctx, "a@example.com", "other"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("SignUp() error = %v, want ErrEmailTaken", err)
	}
}

func TestCurrentUser(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)
	ctx := context.Background()

	user, session, err := svc.SignUp(ctx, "a@example.com", "hunter22")
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	got, refreshed, err := svc.CurrentUser(ctx, session.Token)
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("CurrentUser() user = %s, want %s", got.ID, user.ID)
	}
	if refreshed {
		t.Error("CurrentUser() refreshed a brand new session")
	}
}

func TestCurrentUserRefreshesAgedSession(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)
	ctx := context.Background()

	_, session, err := svc.SignUp(ctx, "a@example.com", "hunter22")
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	// Report a remaining TTL two hours short of the full lifetime: the
	// session is older than refreshAfter and must be extended.
	store.ttlOnWire = 22 * time.Hour

	_, refreshed, err := svc.CurrentUser(ctx, session.Token)
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if !refreshed {
		t.Error("CurrentUser() refreshed = false, want true for an aged session")
	}
	if store.sessions[session.Token].ttl != 24*time.Hour {
		t.Errorf("session ttl = %v, want %v", store.sessions[session.Token].ttl, 24*time.Hour)
	}
}

func TestCurrentUserNoSession(t *testing.T) {
	svc := newService(newFakeStore())

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "unknown token", token: "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := svc.CurrentUser(context.Background(), tt.token); !errors.Is(err, ErrNoSession) {
				t.Errorf("CurrentUser() error = %v, want ErrNoSession", err)
			}
		})
	}
}

func TestCurrentUserBackendDown(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)
	ctx := context.Background()

	_, session, err := svc.SignUp(ctx, "a@example.com", "hunter22")
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	store.failing = true

	_, _, err = svc.CurrentUser(ctx, session.Token)
	if err == nil || errors.Is(err, ErrNoSession) {
		t.Errorf("CurrentUser() error = %v, want a backend error distinct from ErrNoSession", err)
	}
}

func TestSignOut(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)
	ctx := context.Background()

	_, session, err := svc.SignUp(ctx, "a@example.com", "hunter22")
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	if err := svc.SignOut(ctx, session.Token); err != nil {
		t.Fatalf("SignOut() error = %v", err)
	}
	if _, _, err := svc.CurrentUser(ctx, session.Token); !errors.Is(err, ErrNoSession) {
		t.Errorf("CurrentUser() after sign-out error = %v, want ErrNoSession", err)
	}
}
