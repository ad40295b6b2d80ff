package ebay

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"deal-scanner/models"
)

func TestSearchURL(t *testing.T) {
	raw, err := searchURL("https://www.ebay.com/", Request{
		Operation:  OpFindByKeywords,
		Keywords:   "nikon d3500",
		Filters:    []models.Filter{models.NewFilter(FilterMaxPrice, "500"), models.NewFilter(FilterListingType, "Auction")},
		Pagination: models.Pagination{EntriesPerPage: 50},
		SortOrder:  models.SortPricePlusShippingLowest,
	})
	if err != nil {
		t.Fatalf("searchURL: %v", err)
	}
	u, _ := url.Parse(raw)
	q := u.Query()
	if u.Path != "/sch/i.html" {
		t.Errorf("path: got %q", u.Path)
	}
	for k, want := range map[string]string{"_nkw": "nikon d3500", "_ipg": "50", "_sop": "15", "_udhi": "500", "LH_Auction": "1"} {
		if q.Get(k) != want {
			t.Errorf("%s: got %q, want %q", k, q.Get(k), want)
		}
	}
}

func TestSearchURLCompleted(t *testing.T) {
	raw, _ := searchURL(defaultSiteURL, Request{Operation: OpFindCompleted, Keywords: "x"})
	u, _ := url.Parse(raw)
	if u.Query().Get("LH_Sold") != "1" || u.Query().Get("LH_Complete") != "1" {
		t.Errorf("completed flags missing: %s", raw)
	}
}

func TestParseTimeLeft(t *testing.T) {
	tests := []struct {
		in     string
		want   time.Duration
		wantOK bool
	}{
		{"2d 4h left", 52 * time.Hour, true},
		{"12m 30s left", 12*time.Minute + 30*time.Second, true},
		{"3h left", 3 * time.Hour, true},
		{"", 0, false},
		{"Ended", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseTimeLeft(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("parseTimeLeft(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestCardsToItems(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	cards := []card{
		{Title: "Shop on eBay", Price: "$20.00"},
		{
			Title: "Nikon D3500  Body", Price: "$1,089.99", URL: "https://www.ebay.com/itm/Nikon-D3500/123456789012?hash=x",
			Location: "from United States", Bids: "4 bids", TimeLeft: "1h 5m left", Condition: "Pre-Owned",
		},
	}

	items := cardsToItems(cards, now)
	if len(items) != 1 {
		t.Fatalf("items: got %d, want 1", len(items))
	}

	l, err := normalizeItem(items[0])
	if err != nil {
		t.Fatalf("normalizeItem: %v", err)
	}
	if l.ItemID != "123456789012" {
		t.Errorf("ItemID: got %q", l.ItemID)
	}
	if l.CurrentPrice.String() != "1089.99" {
		t.Errorf("CurrentPrice: got %s", l.CurrentPrice)
	}
	if l.ListingType != models.ListingAuction || l.BidCount != 4 {
		t.Errorf("auction fields: got %q, %d bids", l.ListingType, l.BidCount)
	}
	if !l.EndTime.Equal(now.Add(65 * time.Minute)) {
		t.Errorf("EndTime: got %v", l.EndTime)
	}
	if l.Location != "United States" || l.Condition != "Pre-Owned" {
		t.Errorf("Location/Condition: got %q/%q", l.Location, l.Condition)
	}
}

func TestBrowserClientRejectsLookupByID(t *testing.T) {
	b := NewBrowserClient(BrowserOptions{})
	_, err := b.Execute(context.Background(), Request{Operation: OpFindByID, ItemID: "1"})
	if !errors.Is(err, models.ErrUpstreamUnavailable) || !errors.Is(err, errors.ErrUnsupported) {
		t.Errorf("Execute: got %v", err)
	}
}
