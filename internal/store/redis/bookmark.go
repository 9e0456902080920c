package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/smartmarks/internal/domain"
)

// CreateBookmark writes a new bookmark for userID and returns the created
// row with its generated id and creation timestamp. url and title are
// expected to be normalized already (see domain.NormalizeURL).
func (s *Store) CreateBookmark(ctx context.Context, userID, url, title string) (*domain.Bookmark, error) {
	bookmark := &domain.Bookmark{
		ID:        uuid.NewString(),
		UserID:    userID,
		URL:       url,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(bookmark)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal bookmark: %w", err)
	}

	// Record plus index entry in one round trip. The index zset is scored
	// by creation time so reads come back newest-first.
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, BookmarkKey(bookmark.ID), data, 0)
	pipe.ZAdd(ctx, UserBookmarksKey(userID), redis.Z{
		Score:  float64(bookmark.CreatedAt.UnixNano()),
		Member: bookmark.ID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to save bookmark: %w", err)
	}

	return bookmark, nil
}

// GetBookmark retrieves a bookmark from Redis by ID
func (s *Store) GetBookmark(ctx context.Context, id string) (*domain.Bookmark, error) {
	data, err := s.client.Get(ctx, BookmarkKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get bookmark: %w", err)
	}

	var bookmark domain.Bookmark
	if err := json.Unmarshal(data, &bookmark); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bookmark: %w", err)
	}

	return &bookmark, nil
}

// ListBookmarks returns all bookmarks of userID, newest first.
func (s *Store) ListBookmarks(ctx context.Context, userID string) ([]*domain.Bookmark, error) {
	ids, err := s.client.ZRevRange(ctx, UserBookmarksKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmark IDs: %w", err)
	}

	if len(ids) == 0 {
		return []*domain.Bookmark{}, nil
	}

	bookmarks := make([]*domain.Bookmark, 0, len(ids))
	for _, id := range ids {
		bookmark, err := s.GetBookmark(ctx, id)
		if err != nil {
			// Skip dangling index entries; the sweeper prunes them.
			continue
		}
		bookmarks = append(bookmarks, bookmark)
	}

	return bookmarks, nil
}

// DeleteBookmark removes a bookmark scoped by both id and owner. It reports
// whether a row was actually removed: false for an absent id and false for
// a row owned by a different user (the row is left untouched).
func (s *Store) DeleteBookmark(ctx context.Context, id, userID string) (bool, error) {
	bookmark, err := s.GetBookmark(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if bookmark.UserID != userID {
		return false, nil
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, BookmarkKey(id))
	pipe.ZRem(ctx, UserBookmarksKey(userID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to delete bookmark: %w", err)
	}

	return true, nil
}

// PruneUserIndex drops index entries whose bookmark record no longer
// exists and returns how many were removed.
func (s *Store) PruneUserIndex(ctx context.Context, userID string) (int, error) {
	ids, err := s.client.ZRange(ctx, UserBookmarksKey(userID), 0, -1).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read bookmark index: %w", err)
	}

	pruned := 0
	for _, id := range ids {
		exists, err := s.client.Exists(ctx, BookmarkKey(id)).Result()
		if err != nil {
			return pruned, fmt.Errorf("failed to check bookmark %s: %w", id, err)
		}
		if exists == 0 {
			if err := s.client.ZRem(ctx, UserBookmarksKey(userID), id).Err(); err != nil {
				return pruned, fmt.Errorf("failed to prune bookmark %s: %w", id, err)
			}
			pruned++
		}
	}

	return pruned, nil
}
