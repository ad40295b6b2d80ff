package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Urgency is a coarse classification of how soon a listing closes.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// Valuation is the outcome of scoring one listing against a baseline.
// When Assessable is false the other fields are zero.
type Valuation struct {
	Assessable      bool
	IsUndervalued   bool
	DiscountPercent int
	Savings         decimal.Decimal
}

// Deal is a listing that cleared the discount gate, enriched with
// valuation and urgency metadata. Deals are rebuilt on every search.
type Deal struct {
	ItemID          string          `json:"itemId,omitempty"`
	Title           string          `json:"title"`
	CurrentPrice    decimal.Decimal `json:"currentPrice"`
	AvgSoldPrice    decimal.Decimal `json:"avgSoldPrice"`
	DiscountPercent int             `json:"discount"`
	Savings         decimal.Decimal `json:"savings"`
	Condition       string          `json:"condition"`
	Location        string          `json:"location"`
	ItemURL         string          `json:"itemUrl"`
	ImageURL        string          `json:"imageUrl"`
	SoldCount       int             `json:"soldCount"`
	Model           string          `json:"model"`
	ListingType     ListingType     `json:"listingType"`
	EndTime         *time.Time      `json:"endTime,omitempty"`
	TimeLeft        string          `json:"timeLeft"`
	BidCount        int             `json:"bidCount"`
	Urgency         Urgency         `json:"urgency"`
}

// DealQuery is a user request for ranked deals.
type DealQuery struct {
	Query        string
	MaxPrice     decimal.Decimal
	MaxTimeHours float64
}

const (
	DefaultMaxPrice     = 1000
	DefaultMaxTimeHours = 24
)

// NewDealQuery returns a query with the default price and time bounds.
func NewDealQuery(query string) DealQuery {
	return DealQuery{
		Query:        query,
		MaxPrice:     decimal.NewFromInt(DefaultMaxPrice),
		MaxTimeHours: DefaultMaxTimeHours,
	}
}

// DealFilters echoes the bounds a search ran with.
type DealFilters struct {
	MaxPrice     decimal.Decimal `json:"maxPrice"`
	MaxTimeHours float64         `json:"maxTimeHours"`
}

// DealResult is the ranked outcome of a deal search. Synthetic is set when
// the results come from the fallback supplier instead of the marketplace.
type DealResult struct {
	Results   []Deal      `json:"results"`
	Query     string      `json:"query"`
	Filters   DealFilters `json:"filters"`
	Synthetic bool        `json:"synthetic"`
}

// Alert is an ending-soon listing that passed the undervalue check.
type Alert struct {
	ItemID       string          `json:"itemId,omitempty"`
	Title        string          `json:"title"`
	Price        decimal.Decimal `json:"price"`
	URL          string          `json:"url"`
	EndTime      time.Time       `json:"endTime"`
	AvgSoldPrice decimal.Decimal `json:"avgSoldPrice"`
}

// AlertSnapshot is the result of exactly one completed alert pass.
// Snapshots are immutable once published.
type AlertSnapshot struct {
	PassID      uuid.UUID `json:"passId"`
	CompletedAt time.Time `json:"completedAt"`
	Alerts      []Alert   `json:"alerts"`
	Failed      bool      `json:"failed"`
}
