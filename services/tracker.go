package services

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"deal-scanner/models"
	"deal-scanner/utils"
)

// ItemLookup fetches a single live listing by id.
type ItemLookup interface {
	FindByID(ctx context.Context, id string) (*models.Listing, error)
}

// TrackedItemStore persists tracked items keyed by id.
type TrackedItemStore interface {
	SaveTracked(ctx context.Context, item models.TrackedItem) error
	ListTracked(ctx context.Context) ([]models.TrackedItem, error)
}

// Tracker pins listings by id and keeps their prices current.
type Tracker struct {
	lookup         ItemLookup
	store          TrackedItemStore
	maxConcurrency int
	rateLimitMs    int
	logger         *utils.Logger
	now            func() time.Time
}

// NewTracker creates a Tracker. Refresh fetches at most maxConcurrency
// items at once, spaced rateLimitMs apart.
func NewTracker(lookup ItemLookup, store TrackedItemStore, maxConcurrency, rateLimitMs int, logger *utils.Logger) *Tracker {
	return &Tracker{
		lookup:         lookup,
		store:          store,
		maxConcurrency: maxConcurrency,
		rateLimitMs:    rateLimitMs,
		logger:         logger,
		now:            time.Now,
	}
}

// Track looks up id and saves the resulting record. Unknown ids yield
// ErrNotFound.
func (t *Tracker) Track(ctx context.Context, id string) (models.TrackedItem, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.TrackedItem{}, fmt.Errorf("%w: item id is required", models.ErrInvalidInput)
	}

	l, err := t.lookup.FindByID(ctx, id)
	if err != nil {
		return models.TrackedItem{}, err
	}
	if l == nil {
		return models.TrackedItem{}, fmt.Errorf("%w: item %s", models.ErrNotFound, id)
	}

	item := models.NewTrackedItem(*l, t.now())
	if item.ID == "" {
		item.ID = id
	}
	if err := t.store.SaveTracked(ctx, item); err != nil {
		return models.TrackedItem{}, fmt.Errorf("save tracked item %s: %w", id, err)
	}

	t.logger.Info("[tracker] Tracking %s (%s) at %s", item.ID, item.Title, item.CurrentPrice)
	return item, nil
}

// Refresh re-fetches every tracked item and stores its latest price and end
// time. It returns how many items were updated; items that fail to refresh
// are logged and left unchanged.
func (t *Tracker) Refresh(ctx context.Context) (int, error) {
	items, err := t.store.ListTracked(ctx)
	if err != nil {
		return 0, fmt.Errorf("list tracked items: %w", err)
	}

	var updated int64
	pool := utils.NewWorkerPool(t.maxConcurrency, t.rateLimitMs)
	for _, item := range items {
		item := item
		pool.Submit(func() {
			if ctx.Err() != nil {
				return
			}
			if t.refreshOne(ctx, item) {
				atomic.AddInt64(&updated, 1)
			}
		})
	}
	pool.Wait()

	t.logger.Info("[tracker] Refreshed %d/%d tracked items", updated, len(items))
	return int(updated), ctx.Err()
}

func (t *Tracker) refreshOne(ctx context.Context, item models.TrackedItem) bool {
	l, err := t.lookup.FindByID(ctx, item.ID)
	if err != nil {
		t.logger.Warn("[tracker] Refresh %s failed: %v", item.ID, err)
		return false
	}
	if l == nil {
		t.logger.Warn("[tracker] %s no longer listed", item.ID)
		return false
	}

	item.CurrentPrice = l.CurrentPrice
	item.EndTime = l.EndTime
	item.LastChecked = t.now().UTC()
	if err := t.store.SaveTracked(ctx, item); err != nil {
		t.logger.Warn("[tracker] Saving %s failed: %v", item.ID, err)
		return false
	}
	return true
}
