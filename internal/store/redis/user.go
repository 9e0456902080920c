package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/smartmarks/internal/domain"
)

// storedUser is the storage shape of domain.User. The domain type hides
// the password hash from JSON on purpose; storage must keep it.
type storedUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateUser stores a new user. The email lookup key is claimed with SETNX
// first so two concurrent sign-ups with the same address cannot both win.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	email := normalizeEmail(user.Email)

	ok, err := s.client.SetNX(ctx, UserEmailKey(email), user.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to claim email: %w", err)
	}
	if !ok {
		return ErrEmailTaken
	}

	data, err := json.Marshal(storedUser{
		ID:           user.ID,
		Email:        email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	})
	if err != nil {
		// Release the claimed email so the sign-up can be retried.
		s.client.Del(ctx, UserEmailKey(email))
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, UserKey(user.ID), data, 0)
	pipe.SAdd(ctx, AllUsersKey(), user.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		s.client.Del(ctx, UserEmailKey(email))
		return fmt.Errorf("failed to save user: %w", err)
	}

	return nil
}

// GetUser retrieves a user by ID
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	data, err := s.client.Get(ctx, UserKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	var stored storedUser
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return &domain.User{
		ID:           stored.ID,
		Email:        stored.Email,
		PasswordHash: stored.PasswordHash,
		CreatedAt:    stored.CreatedAt,
	}, nil
}

// GetUserByEmail retrieves a user by their sign-in email
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	id, err := s.client.Get(ctx, UserEmailKey(normalizeEmail(email))).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	return s.GetUser(ctx, id)
}

// ListUserIDs returns the IDs of all registered users
func (s *Store) ListUserIDs(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, AllUsersKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return ids, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
