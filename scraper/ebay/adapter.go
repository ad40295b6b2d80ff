package ebay

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"deal-scanner/models"
	"deal-scanner/utils"
)

// Backend executes a marketplace call and returns raw item records.
type Backend interface {
	Execute(ctx context.Context, req Request) (*RawResult, error)
}

// Adapter wraps a Backend and hands out normalized listings and prices.
// It is stateless; malformed records are dropped and every backend failure
// is reported as models.ErrUpstreamUnavailable.
type Adapter struct {
	backend Backend
	logger  *utils.Logger
	now     func() time.Time
}

// NewAdapter creates an Adapter over backend.
func NewAdapter(backend Backend, logger *utils.Logger) *Adapter {
	return &Adapter{backend: backend, logger: logger, now: time.Now}
}

// SearchByKeyword finds live listings matching query.
func (a *Adapter) SearchByKeyword(ctx context.Context, query string, filters []models.Filter, page models.Pagination, sort models.SortOrder) ([]models.Listing, error) {
	res, err := a.execute(ctx, Request{
		Operation:  OpFindByKeywords,
		Keywords:   query,
		Filters:    filters,
		Pagination: page,
		SortOrder:  sort,
	})
	if err != nil {
		return nil, err
	}
	return a.listings(res), nil
}

// SearchAdvanced runs an unfiltered-keyword search constrained only by filters.
func (a *Adapter) SearchAdvanced(ctx context.Context, filters []models.Filter, page models.Pagination) ([]models.Listing, error) {
	res, err := a.execute(ctx, Request{
		Operation:  OpFindAdvanced,
		Filters:    filters,
		Pagination: page,
	})
	if err != nil {
		return nil, err
	}
	return a.listings(res), nil
}

// SearchEndingSoon returns up to limit listings ending within window of now.
func (a *Adapter) SearchEndingSoon(ctx context.Context, window time.Duration, limit int) ([]models.Listing, error) {
	now := a.now().UTC()
	filters := []models.Filter{
		EndTimeFilter(FilterEndTimeTo, now.Add(window)),
		EndTimeFilter(FilterEndTimeFrom, now),
	}
	return a.SearchAdvanced(ctx, filters, models.Pagination{EntriesPerPage: limit})
}

// SearchCompletedSales returns sale prices of sold listings whose keywords
// exactly match title. Records without a usable price are skipped.
func (a *Adapter) SearchCompletedSales(ctx context.Context, title string, limit int) ([]decimal.Decimal, error) {
	res, err := a.execute(ctx, Request{
		Operation:  OpFindCompleted,
		Keywords:   title,
		Filters:    []models.Filter{models.NewFilter(FilterSoldItemsOnly, "true")},
		Pagination: models.Pagination{EntriesPerPage: limit},
	})
	if err != nil {
		return nil, err
	}

	prices := make([]decimal.Decimal, 0, len(res.Items))
	for _, raw := range res.Items {
		price, err := itemPrice(raw)
		if err != nil {
			a.logger.Debug("[ebay] Skipping comp for %q: %v", title, err)
			continue
		}
		prices = append(prices, price)
	}
	return prices, nil
}

// FindByID looks up a single listing. It returns nil without error when the
// marketplace has no usable record for id.
func (a *Adapter) FindByID(ctx context.Context, id string) (*models.Listing, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: empty item id", models.ErrInvalidInput)
	}

	res, err := a.execute(ctx, Request{Operation: OpFindByID, ItemID: id})
	if err != nil {
		return nil, err
	}

	listings := a.listings(res)
	if len(listings) == 0 {
		return nil, nil
	}
	l := listings[0]
	if l.ItemID == "" {
		l.ItemID = id
	}
	return &l, nil
}

func (a *Adapter) execute(ctx context.Context, req Request) (*RawResult, error) {
	res, err := a.backend.Execute(ctx, req)
	if err != nil {
		if !errors.Is(err, models.ErrUpstreamUnavailable) {
			err = fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
		}
		a.logger.Warn("[ebay] %s failed: %v", req.Operation, err)
		return nil, err
	}
	if res == nil {
		return &RawResult{}, nil
	}
	return res, nil
}

// listings normalizes raw records, dropping malformed ones and repeated ids.
func (a *Adapter) listings(res *RawResult) []models.Listing {
	seen := utils.NewIDSet()
	out := make([]models.Listing, 0, len(res.Items))
	for _, raw := range res.Items {
		l, err := normalizeItem(raw)
		if err != nil {
			a.logger.Debug("[ebay] Dropping record: %v", err)
			continue
		}
		if l.ItemID != "" && !seen.Add(l.ItemID) {
			a.logger.Debug("[ebay] Duplicate item skipped: %s", l.ItemID)
			continue
		}
		out = append(out, l)
	}
	return out
}
