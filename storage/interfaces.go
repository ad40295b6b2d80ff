package storage

import (
	"context"

	"deal-scanner/models"
)

// DealWriter is the interface any deal export backend must satisfy.
type DealWriter interface {
	WriteDeals(result models.DealResult) error
	Close() error
}

// TrackedStore persists tracked items and the baselines computed for titles.
type TrackedStore interface {
	SaveTracked(ctx context.Context, item models.TrackedItem) error
	ListTracked(ctx context.Context) ([]models.TrackedItem, error)
	RecordBaseline(ctx context.Context, title string, b models.Baseline) error
	Ping(ctx context.Context) error
	Close() error
}
