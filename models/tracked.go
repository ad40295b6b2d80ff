package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrackedItem is a user-pinned listing snapshot kept by the tracked-item store.
type TrackedItem struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	EndTime      time.Time       `json:"endTime"`
	UPC          string          `json:"upc,omitempty"`
	EAN          string          `json:"ean,omitempty"`
	GTIN         string          `json:"gtin,omitempty"`
	CategoryID   string          `json:"categoryId,omitempty"`
	LastChecked  time.Time       `json:"lastChecked"`
}

// NewTrackedItem builds the store record for a listing checked at now.
func NewTrackedItem(l Listing, now time.Time) TrackedItem {
	return TrackedItem{
		ID:           l.ItemID,
		Title:        l.Title,
		CurrentPrice: l.CurrentPrice,
		EndTime:      l.EndTime,
		UPC:          l.ProductIDs.UPC,
		EAN:          l.ProductIDs.EAN,
		GTIN:         l.ProductIDs.GTIN,
		CategoryID:   l.CategoryID,
		LastChecked:  now.UTC(),
	}
}
