package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"deal-scanner/models"
	"deal-scanner/utils"
)

// CompSource supplies sale prices of completed listings.
type CompSource interface {
	SearchCompletedSales(ctx context.Context, title string, limit int) ([]decimal.Decimal, error)
}

// BaselineRecorder receives every baseline the estimator computes.
type BaselineRecorder interface {
	RecordBaseline(ctx context.Context, title string, b models.Baseline) error
}

// Estimator derives a price baseline for a title from comparable sales.
type Estimator struct {
	comps    CompSource
	limit    int
	recorder BaselineRecorder
	logger   *utils.Logger
}

// NewEstimator creates an Estimator that averages up to limit comps.
func NewEstimator(comps CompSource, limit int, logger *utils.Logger) *Estimator {
	if limit <= 0 {
		limit = 20
	}
	return &Estimator{comps: comps, limit: limit, logger: logger}
}

// WithRecorder attaches a recorder and returns the estimator.
func (e *Estimator) WithRecorder(r BaselineRecorder) *Estimator {
	e.recorder = r
	return e
}

// Estimate returns the mean sale price of completed listings whose keywords
// match title exactly. It never fails: no comps and upstream errors both
// yield the absent baseline.
func (e *Estimator) Estimate(ctx context.Context, title string) models.Baseline {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.NoBaseline
	}

	prices, err := e.comps.SearchCompletedSales(ctx, title, e.limit)
	if err != nil {
		e.logger.Warn("[estimator] No baseline for %q: %v", title, err)
		return models.NoBaseline
	}

	b := mean(prices)
	if !b.Present() {
		e.logger.Debug("[estimator] %q: %v", title, models.ErrNoComparableData)
		return models.NoBaseline
	}

	if e.recorder != nil {
		if err := e.recorder.RecordBaseline(ctx, title, b); err != nil {
			e.logger.Warn("[estimator] Recording baseline for %q failed: %v", title, err)
		}
	}
	return b
}

func mean(prices []decimal.Decimal) models.Baseline {
	if len(prices) == 0 {
		return models.NoBaseline
	}
	sum := decimal.Sum(prices[0], prices[1:]...)
	return models.Baseline{
		Average: sum.Div(decimal.NewFromInt(int64(len(prices)))).Round(2),
		Count:   len(prices),
	}
}
