package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"deal-scanner/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func prices(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(values))
	for _, v := range values {
		out = append(out, dec(v))
	}
	return out
}

func listing(id, title, price string, end time.Time) models.Listing {
	return models.Listing{
		ItemID:       id,
		Title:        title,
		CurrentPrice: dec(price),
		URL:          "https://www.ebay.com/itm/" + id,
		EndTime:      end,
		Condition:    "Used",
		Location:     "Austin, TX",
		ListingType:  models.ListingAuction,
	}
}

type fakeComps struct {
	mu     sync.Mutex
	prices map[string][]decimal.Decimal
	err    error
	calls  int
}

func (f *fakeComps) SearchCompletedSales(_ context.Context, title string, _ int) ([]decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.prices[title], nil
}

type fakeRecorder struct {
	recorded map[string]models.Baseline
	err      error
}

func (f *fakeRecorder) RecordBaseline(_ context.Context, title string, b models.Baseline) error {
	if f.recorded == nil {
		f.recorded = make(map[string]models.Baseline)
	}
	f.recorded[title] = b
	return f.err
}

type fakeSource struct {
	keyword    []models.Listing
	endingSoon []models.Listing
	err        error

	query   string
	filters []models.Filter
	page    models.Pagination
	sort    models.SortOrder
}

func (f *fakeSource) SearchByKeyword(_ context.Context, query string, filters []models.Filter, page models.Pagination, sort models.SortOrder) ([]models.Listing, error) {
	f.query, f.filters, f.page, f.sort = query, filters, page, sort
	if f.err != nil {
		return nil, f.err
	}
	return f.keyword, nil
}

func (f *fakeSource) SearchEndingSoon(_ context.Context, _ time.Duration, _ int) ([]models.Listing, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.endingSoon, nil
}

type fakeLookup struct {
	mu       sync.Mutex
	listings map[string]*models.Listing
	errs     map[string]error
}

func (f *fakeLookup) FindByID(_ context.Context, id string) (*models.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[id]; err != nil {
		return nil, err
	}
	l, ok := f.listings[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

type memTrackedStore struct {
	mu    sync.Mutex
	items map[string]models.TrackedItem
}

func newMemTrackedStore() *memTrackedStore {
	return &memTrackedStore{items: make(map[string]models.TrackedItem)}
}

func (s *memTrackedStore) SaveTracked(_ context.Context, item models.TrackedItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = item
	return nil
}

func (s *memTrackedStore) ListTracked(_ context.Context) ([]models.TrackedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.TrackedItem, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
