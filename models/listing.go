package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ListingType is the marketplace selling format of a listing.
type ListingType string

const (
	ListingAuction        ListingType = "Auction"
	ListingAuctionWithBIN ListingType = "AuctionWithBIN"
	ListingFixedPrice     ListingType = "FixedPrice"
	ListingStoreInventory ListingType = "StoreInventory"
	ListingClassified     ListingType = "Classified"
	ListingUnknown        ListingType = "Unknown"
)

// ParseListingType maps an upstream listing type onto a known value.
func ParseListingType(s string) ListingType {
	switch ListingType(s) {
	case ListingAuction, ListingAuctionWithBIN, ListingFixedPrice,
		ListingStoreInventory, ListingClassified:
		return ListingType(s)
	}
	return ListingUnknown
}

// ProductIDs holds the optional catalogue identifiers of a listing.
// An empty string means the upstream record did not carry that identifier.
type ProductIDs struct {
	UPC  string
	EAN  string
	GTIN string
}

// Listing is a normalized marketplace offer. It is produced once by the
// marketplace adapter and never modified afterwards.
type Listing struct {
	ItemID       string
	Title        string
	CurrentPrice decimal.Decimal
	URL          string
	EndTime      time.Time
	Condition    string
	Location     string
	ImageURL     string
	BidCount     int
	ListingType  ListingType
	ProductIDs   ProductIDs
	CategoryID   string
}

// Baseline is the mean of recent comparable sale prices for a title.
// A zero Count means no comparable data was found; Average is then
// meaningless and must not be read as a price of zero.
type Baseline struct {
	Average decimal.Decimal
	Count   int
}

// Present reports whether the baseline was computed from at least one comp.
func (b Baseline) Present() bool {
	return b.Count > 0
}

// NoBaseline is the absent baseline.
var NoBaseline = Baseline{}
