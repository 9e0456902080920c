// Package auth owns accounts and sessions. Session state is an opaque
// token stored in Redis with a TTL; the HTTP layer carries it in a cookie
// and rewrites the cookie whenever a session is refreshed.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrSnakeDoc/smartmarks/internal/domain"
	"github.com/MrSnakeDoc/smartmarks/internal/logger"
	redisstore "github.com/MrSnakeDoc/smartmarks/internal/store/redis"
)

var (
	// ErrInvalidCredentials is returned for a wrong email/password pair.
	// Deliberately the same for unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNoSession is returned when a token does not resolve to a session
	ErrNoSession = errors.New("no valid session")
	// ErrEmailTaken is returned when signing up an already registered email
	ErrEmailTaken = errors.New("email already registered")
)

// dummyHash keeps the unknown-email path roughly as expensive as a real
// password comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-password"), bcrypt.DefaultCost)

// Store is the persistence needed by the auth service.
// *redisstore.Store satisfies it.
type Store interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	CreateSession(ctx context.Context, token, userID string, ttl time.Duration) error
	SessionUser(ctx context.Context, token string) (string, time.Duration, error)
	RefreshSession(ctx context.Context, token string, ttl time.Duration) error
	DeleteSession(ctx context.Context, token string) error
}

// Session is an authenticated session handed to the HTTP layer.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// Service implements sign-up, sign-in, sign-out and session resolution.
type Service struct {
	store        Store
	ttl          time.Duration
	refreshAfter time.Duration
	logger       logger.Logger
}

// New creates the auth service. ttl is the session lifetime;
// refreshAfter is the session age past which CurrentUser extends it.
func New(store Store, ttl, refreshAfter time.Duration, log logger.Logger) *Service {
	return &Service{
		store:        store,
		ttl:          ttl,
		refreshAfter: refreshAfter,
		logger:       log,
	}
}

// SignUp creates an account and an initial session.
func (s *Service) SignUp(ctx context.Context, email, password string) (*domain.User, *Session, error) {
	if email == "" || password == "" {
		return nil, nil, ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, redisstore.ErrEmailTaken) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	session, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user signed up", logger.String("user_id", user.ID))
	return user, session, nil
}

// SignIn verifies credentials and opens a new session.
func (s *Service) SignIn(ctx context.Context, email, password string) (*domain.User, *Session, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, redisstore.ErrNotFound) {
			// Burn a comparison anyway so unknown emails cost the same.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user signed in", logger.String("user_id", user.ID))
	return user, session, nil
}

// SignOut destroys the session for the given token.
func (s *Service) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.store.DeleteSession(ctx, token)
}

// CurrentUser resolves a session token to its user. refreshed reports that
// the session lifetime was extended and the cookie must be rewritten.
// Returns ErrNoSession for missing/expired tokens; any other error means
// the auth backend is unavailable and callers must fail closed.
func (s *Service) CurrentUser(ctx context.Context, token string) (*domain.User, bool, error) {
	if token == "" {
		return nil, false, ErrNoSession
	}

	userID, remaining, err := s.store.SessionUser(ctx, token)
	if err != nil {
		if errors.Is(err, redisstore.ErrNotFound) {
			return nil, false, ErrNoSession
		}
		return nil, false, fmt.Errorf("auth backend unavailable: %w", err)
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, redisstore.ErrNotFound) {
			// Session points at a deleted account; drop it.
			_ = s.store.DeleteSession(ctx, token)
			return nil, false, ErrNoSession
		}
		return nil, false, fmt.Errorf("auth backend unavailable: %w", err)
	}

	refreshed := false
	if age := s.ttl - remaining; age >= s.refreshAfter {
		if err := s.store.RefreshSession(ctx, token, s.ttl); err != nil {
			// The current request still has a valid session; only the
			// extension failed.
			s.logger.Warn("failed to refresh session", logger.Error(err))
		} else {
			refreshed = true
		}
	}

	return user, refreshed, nil
}

// TTL returns the configured session lifetime
func (s *Service) TTL() time.Duration {
	return s.ttl
}

func (s *Service) openSession(ctx context.Context, userID string) (*Session, error) {
	token := uuid.NewString()
	if err := s.store.CreateSession(ctx, token, userID, s.ttl); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.ttl),
	}, nil
}
