package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/smartmarks/internal/logger"
)

// SweepStore is the store surface the sweeper needs.
// *redisstore.Store satisfies it.
type SweepStore interface {
	ListUserIDs(ctx context.Context) ([]string, error)
	PruneUserIndex(ctx context.Context, userID string) (int, error)
}

// IndexSweeper periodically drops dangling entries from per-user bookmark
// indexes (ids whose record was removed without its index entry, e.g. by a
// partial delete). It can also be kicked manually through a trigger channel.
type IndexSweeper struct {
	store         SweepStore
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewIndexSweeper creates a new index sweeper
func NewIndexSweeper(
	store SweepStore,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *IndexSweeper {
	return &IndexSweeper{
		store:         store,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the periodic sweep process
func (sw *IndexSweeper) Start(ctx context.Context) error {
	// Run immediately on start (best effort)
	if err := sw.Sweep(ctx); err != nil {
		sw.logger.Warn("initial index sweep failed", logger.Error(err))
	}

	ticker := time.NewTicker(sw.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := sw.Sweep(ctx); err != nil {
					sw.logger.Error("index sweep failed", logger.Error(err))
				}
			case <-sw.manualTrigger:
				sw.logger.Info("manual index sweep triggered")
				if err := sw.Sweep(ctx); err != nil {
					sw.logger.Error("index sweep failed", logger.Error(err))
				}
			case <-sw.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the sweeper
func (sw *IndexSweeper) Stop() {
	close(sw.stopCh)
}

// Sweep prunes every user's bookmark index once.
func (sw *IndexSweeper) Sweep(ctx context.Context) error {
	userIDs, err := sw.store.ListUserIDs(ctx)
	if err != nil {
		return err
	}

	totalPruned := 0
	for _, userID := range userIDs {
		pruned, err := sw.store.PruneUserIndex(ctx, userID)
		if err != nil {
			sw.logger.Warn("failed to prune bookmark index",
				logger.String("user_id", userID),
				logger.Error(err))
			continue
		}
		if pruned > 0 {
			sw.logger.Info("pruned dangling bookmark index entries",
				logger.String("user_id", userID),
				logger.Int("pruned", pruned))
		}
		totalPruned += pruned
	}

	if totalPruned == 0 {
		sw.logger.Debug("no dangling index entries to sweep")
	}
	return nil
}
