// Package notify carries row-level bookmark change notifications between
// sessions over Redis pub/sub, one channel per user. Inserts and deletes
// performed by any client are published here and merged into every
// subscribed session's list.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/smartmarks/internal/domain"
	"github.com/MrSnakeDoc/smartmarks/internal/logger"
	redisstore "github.com/MrSnakeDoc/smartmarks/internal/store/redis"
)

// EventType tags a change notification
type EventType string

const (
	// EventInsert announces a newly created bookmark
	EventInsert EventType = "insert"
	// EventDelete announces a removed bookmark
	EventDelete EventType = "delete"
)

// Event is one row-level change of a user's bookmark collection.
type Event struct {
	Type EventType `json:"type"`

	// Bookmark carries the full record for insert events
	Bookmark *domain.Bookmark `json:"bookmark,omitempty"`

	// ID identifies the removed record for delete events
	ID string `json:"id,omitempty"`
}

// Status is the lifecycle state of one subscription.
type Status string

const (
	// StatusConnecting means the channel is not yet acknowledged
	StatusConnecting Status = "connecting"
	// StatusLive means the channel is acknowledged and delivering events
	StatusLive Status = "live"
	// StatusClosed means the subscription has been released
	StatusClosed Status = "closed"
)

// Publisher announces bookmark changes to all of a user's live sessions.
type Publisher struct {
	client *redis.Client
	logger logger.Logger
}

// NewPublisher creates a publisher on the shared Redis client
func NewPublisher(client *redis.Client, log logger.Logger) *Publisher {
	return &Publisher{
		client: client,
		logger: log,
	}
}

// BookmarkInserted publishes an insert notification. Best effort: a publish
// failure only costs liveness for other sessions, never the durable write.
func (p *Publisher) BookmarkInserted(ctx context.Context, b *domain.Bookmark) {
	p.publish(ctx, b.UserID, Event{Type: EventInsert, Bookmark: b})
}

// BookmarkDeleted publishes a delete notification
func (p *Publisher) BookmarkDeleted(ctx context.Context, userID, id string) {
	p.publish(ctx, userID, Event{Type: EventDelete, ID: id})
}

func (p *Publisher) publish(ctx context.Context, userID string, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		p.logger.Error("failed to marshal change event", logger.Error(err))
		return
	}

	if err := p.client.Publish(ctx, redisstore.ChangeChannel(userID), data).Err(); err != nil {
		p.logger.Warn("failed to publish change event",
			logger.String("user_id", userID),
			logger.String("event", string(ev.Type)),
			logger.Error(err))
	}
}

// Subscriber is one session's live view of a user's change channel.
// Close must be called exactly once per logical teardown; it is safe to
// call more than once.
type Subscriber struct {
	pubsub   *redis.PubSub
	events   chan Event
	logger   logger.Logger
	onStatus func(Status)
	closeFn  sync.Once
}

// Subscribe opens a change subscription for one user. onStatus is invoked
// with StatusConnecting immediately, StatusLive once Redis acknowledges the
// channel, and StatusClosed on release. The returned subscriber delivers
// events until Close is called or ctx is canceled.
func Subscribe(ctx context.Context, client *redis.Client, userID string, onStatus func(Status), log logger.Logger) (*Subscriber, error) {
	if onStatus == nil {
		onStatus = func(Status) {}
	}
	onStatus(StatusConnecting)

	pubsub := client.Subscribe(ctx, redisstore.ChangeChannel(userID))

	// Receive blocks until the subscribe acknowledgment arrives; anything
	// other than a successful ack keeps the state at connecting and fails
	// the subscription.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to changes: %w", err)
	}
	onStatus(StatusLive)

	s := &Subscriber{
		pubsub:   pubsub,
		events:   make(chan Event, 16),
		logger:   log,
		onStatus: onStatus,
	}

	go s.pump(ctx, userID)

	return s, nil
}

// Events delivers change notifications in arrival order. The channel is
// closed when the subscription ends.
func (s *Subscriber) Events() <-chan Event {
	return s.events
}

// Close releases the underlying channel. Idempotent.
func (s *Subscriber) Close() error {
	var err error
	s.closeFn.Do(func() {
		err = s.pubsub.Close()
		s.onStatus(StatusClosed)
	})
	return err
}

func (s *Subscriber) pump(ctx context.Context, userID string) {
	defer close(s.events)

	ch := s.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			_ = s.Close()
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}

			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				s.logger.Warn("dropping malformed change event",
					logger.String("user_id", userID),
					logger.Error(err))
				continue
			}

			select {
			case s.events <- ev:
			case <-ctx.Done():
				_ = s.Close()
				return
			}
		}
	}
}
