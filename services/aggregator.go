package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"deal-scanner/models"
	"deal-scanner/scraper/ebay"
	"deal-scanner/utils"
)

// ListingSource is the live-listing side of the marketplace.
type ListingSource interface {
	SearchByKeyword(ctx context.Context, query string, filters []models.Filter, page models.Pagination, sort models.SortOrder) ([]models.Listing, error)
	SearchEndingSoon(ctx context.Context, window time.Duration, limit int) ([]models.Listing, error)
}

// AggregatorOptions bounds the two evaluation modes.
type AggregatorOptions struct {
	EndingSoonWindow time.Duration
	EndingSoonLimit  int
	SearchLimit      int
	MaxDeals         int
}

func (o *AggregatorOptions) setDefaults() {
	if o.EndingSoonWindow <= 0 {
		o.EndingSoonWindow = 10 * time.Minute
	}
	if o.EndingSoonLimit <= 0 {
		o.EndingSoonLimit = 25
	}
	if o.SearchLimit <= 0 {
		o.SearchLimit = 50
	}
	if o.MaxDeals <= 0 {
		o.MaxDeals = 20
	}
}

// Aggregator runs ending-soon alert passes and query-driven deal searches.
// It keeps no state of its own besides the AlertState it publishes to.
type Aggregator struct {
	source    ListingSource
	estimator *Estimator
	valuator  *Valuator
	alerts    *AlertState
	opts      AggregatorOptions
	logger    *utils.Logger
	now       func() time.Time
}

// NewAggregator wires an Aggregator.
func NewAggregator(source ListingSource, estimator *Estimator, valuator *Valuator, alerts *AlertState, opts AggregatorOptions, logger *utils.Logger) *Aggregator {
	opts.setDefaults()
	return &Aggregator{
		source:    source,
		estimator: estimator,
		valuator:  valuator,
		alerts:    alerts,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

// RunAlertPass evaluates listings ending soon and replaces the alert state
// with the undervalued ones. A failed search publishes an empty, failed
// snapshot unless the state keeps alerts on failure.
func (a *Aggregator) RunAlertPass(ctx context.Context) models.AlertSnapshot {
	listings, err := a.source.SearchEndingSoon(ctx, a.opts.EndingSoonWindow, a.opts.EndingSoonLimit)
	if err != nil {
		a.logger.Warn("[alerts] Ending-soon search failed: %v", err)
		return a.alerts.Replace(nil, true)
	}

	alerts := make([]models.Alert, 0)
	for _, l := range listings {
		b := a.estimator.Estimate(ctx, l.Title)
		val, err := a.valuator.Evaluate(l, b)
		if err != nil {
			a.logger.Debug("[alerts] Skipping %q: %v", l.Title, err)
			continue
		}
		if !val.IsUndervalued {
			continue
		}
		alerts = append(alerts, models.Alert{
			ItemID:       l.ItemID,
			Title:        l.Title,
			Price:        l.CurrentPrice,
			URL:          l.URL,
			EndTime:      l.EndTime,
			AvgSoldPrice: b.Average,
		})
	}

	snap := a.alerts.Replace(alerts, false)
	a.logger.Info("[alerts] Pass %s: %d of %d ending-soon listings undervalued",
		snap.PassID, len(alerts), len(listings))
	return snap
}

// SearchDeals returns the ranked deals for q. Only invalid input is
// reported as an error; when the live search cannot complete the result
// holds the synthetic demo deals instead.
func (a *Aggregator) SearchDeals(ctx context.Context, q models.DealQuery) (models.DealResult, error) {
	query := strings.TrimSpace(q.Query)
	if query == "" {
		return models.DealResult{}, fmt.Errorf("%w: query is required", models.ErrInvalidInput)
	}
	if !q.MaxPrice.IsPositive() {
		return models.DealResult{}, fmt.Errorf("%w: maxPrice must be positive", models.ErrInvalidInput)
	}
	if q.MaxTimeHours <= 0 {
		return models.DealResult{}, fmt.Errorf("%w: maxTimeHours must be positive", models.ErrInvalidInput)
	}

	result := models.DealResult{
		Query:   query,
		Filters: models.DealFilters{MaxPrice: q.MaxPrice, MaxTimeHours: q.MaxTimeHours},
	}

	deals, err := a.liveDeals(ctx, query, q)
	if err != nil {
		a.logger.Warn("[deals] Live search for %q failed, serving demo deals: %v", query, err)
		result.Results = DemoDeals(query, q.MaxPrice)
		result.Synthetic = true
		return result, nil
	}

	a.logger.Info("[deals] %q: %d deals", query, len(deals))
	result.Results = deals
	return result, nil
}

func (a *Aggregator) liveDeals(ctx context.Context, query string, q models.DealQuery) ([]models.Deal, error) {
	now := a.now().UTC()
	endBy := now.Add(time.Duration(q.MaxTimeHours * float64(time.Hour)))

	filters := []models.Filter{
		ebay.MaxPriceFilter(q.MaxPrice, "USD"),
		ebay.EndTimeFilter(ebay.FilterEndTimeTo, endBy),
		models.NewFilter(ebay.FilterListingType, string(models.ListingAuction)),
		models.NewFilter(ebay.FilterCondition, "New", "Used"),
	}

	listings, err := a.source.SearchByKeyword(ctx, query, filters,
		models.Pagination{EntriesPerPage: a.opts.SearchLimit}, models.SortPricePlusShippingLowest)
	if err != nil {
		return nil, err
	}

	deals := make([]models.Deal, 0)
	for _, l := range listings {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if l.CurrentPrice.GreaterThan(q.MaxPrice) {
			continue
		}

		deal, ok, err := a.scoreDeal(ctx, l, now)
		if err != nil {
			a.logger.Debug("[deals] Skipping %q: %v", l.Title, err)
			continue
		}
		if !ok {
			continue
		}

		deals = append(deals, deal)
		if len(deals) == a.opts.MaxDeals {
			break
		}
	}
	return deals, nil
}

// scoreDeal values one listing and reports whether it clears the deal gate.
func (a *Aggregator) scoreDeal(ctx context.Context, l models.Listing, now time.Time) (models.Deal, bool, error) {
	b := a.estimator.Estimate(ctx, l.Title)
	val, err := a.valuator.Evaluate(l, b)
	if err != nil {
		return models.Deal{}, false, err
	}
	if !a.valuator.QualifiesAsDeal(val) {
		return models.Deal{}, false, nil
	}

	end := l.EndTime
	timeLeft := TimeLeft(end, now)
	return models.Deal{
		ItemID:          l.ItemID,
		Title:           l.Title,
		CurrentPrice:    l.CurrentPrice,
		AvgSoldPrice:    b.Average,
		DiscountPercent: val.DiscountPercent,
		Savings:         val.Savings,
		Condition:       l.Condition,
		Location:        l.Location,
		ItemURL:         l.URL,
		ImageURL:        l.ImageURL,
		SoldCount:       b.Count,
		Model:           ExtractModel(l.Title),
		ListingType:     l.ListingType,
		EndTime:         &end,
		TimeLeft:        timeLeft,
		BidCount:        l.BidCount,
		Urgency:         ClassifyUrgency(timeLeft),
	}, true, nil
}
