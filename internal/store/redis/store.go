// Package redis implements the durable record store: bookmarks, users and
// sessions, all scoped by user id. It is the authoritative copy of every
// record; in-memory lists are read-through caches of it.
package redis

import (
	"errors"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrEmailTaken is returned when signing up with an email that
	// already has an account.
	ErrEmailTaken = errors.New("email already registered")
)

// Store handles Redis operations for bookmarks, users and sessions
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}
