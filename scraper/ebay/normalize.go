package ebay

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"deal-scanner/models"
)

// priceRegexp captures the first numeric amount in a display price.
var priceRegexp = regexp.MustCompile(`\d+(?:\.\d+)?`)

const (
	unknownCondition = "Unknown"
	unknownLocation  = "Unknown"
)

// normalizeItem turns one raw record into a Listing. Every field read from
// the record is listed here along with its default:
//
//	itemId                              optional, ""
//	title                               required
//	viewItemURL                         required
//	sellingStatus.currentPrice          required, non-negative decimal
//	listingInfo.endTime                 required, RFC 3339
//	listingInfo.listingType             optional, Unknown
//	sellingStatus.bidCount              optional, 0
//	condition.conditionDisplayName      optional, "Unknown"
//	location                            optional, "Unknown"
//	galleryURL                          optional, ""
//	productId[@type=UPC|EAN|GTIN]       optional, ""
//	primaryCategory.categoryId          optional, ""
//
// Records missing a required field yield ErrMalformedRecord.
func normalizeItem(raw RawItem) (models.Listing, error) {
	title := normaliseText(first(raw.Title))
	if title == "" {
		return models.Listing{}, fmt.Errorf("%w: missing title", models.ErrMalformedRecord)
	}

	url := strings.TrimSpace(first(raw.ViewItemURL))
	if url == "" {
		return models.Listing{}, fmt.Errorf("%w: %q has no url", models.ErrMalformedRecord, title)
	}

	price, err := itemPrice(raw)
	if err != nil {
		return models.Listing{}, fmt.Errorf("%q: %w", title, err)
	}

	var info rawListingInfo
	if len(raw.ListingInfo) > 0 {
		info = raw.ListingInfo[0]
	}
	endTime, err := time.Parse(time.RFC3339, strings.TrimSpace(first(info.EndTime)))
	if err != nil {
		return models.Listing{}, fmt.Errorf("%w: %q has no valid end time", models.ErrMalformedRecord, title)
	}

	listing := models.Listing{
		ItemID:       strings.TrimSpace(first(raw.ItemID)),
		Title:        title,
		CurrentPrice: price,
		URL:          url,
		EndTime:      endTime.UTC(),
		Condition:    unknownCondition,
		Location:     unknownLocation,
		ImageURL:     strings.TrimSpace(first(raw.GalleryURL)),
		ListingType:  models.ParseListingType(strings.TrimSpace(first(info.ListingType))),
	}

	if len(raw.SellingStatus) > 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(first(raw.SellingStatus[0].BidCount))); err == nil && n > 0 {
			listing.BidCount = n
		}
	}
	if len(raw.Condition) > 0 {
		if c := normaliseText(first(raw.Condition[0].DisplayName)); c != "" {
			listing.Condition = c
		}
	}
	if loc := normaliseText(first(raw.Location)); loc != "" {
		listing.Location = loc
	}
	if len(raw.PrimaryCategory) > 0 {
		listing.CategoryID = strings.TrimSpace(first(raw.PrimaryCategory[0].CategoryID))
	}
	for _, pid := range raw.ProductID {
		v := strings.TrimSpace(pid.Value)
		switch strings.ToUpper(pid.Type) {
		case "UPC":
			listing.ProductIDs.UPC = v
		case "EAN":
			listing.ProductIDs.EAN = v
		case "GTIN":
			listing.ProductIDs.GTIN = v
		}
	}

	return listing, nil
}

// itemPrice extracts sellingStatus.currentPrice from a raw record.
func itemPrice(raw RawItem) (decimal.Decimal, error) {
	if len(raw.SellingStatus) == 0 || len(raw.SellingStatus[0].CurrentPrice) == 0 {
		return decimal.Zero, fmt.Errorf("%w: missing current price", models.ErrMalformedRecord)
	}
	price, err := decimal.NewFromString(strings.TrimSpace(raw.SellingStatus[0].CurrentPrice[0].Value))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: bad current price: %v", models.ErrMalformedRecord, err)
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative current price %s", models.ErrMalformedRecord, price)
	}
	return price, nil
}

// parsePrice extracts the first amount from a display price.
// Examples:
//
//	"$1,200.50"          → 1200.50
//	"$10.00 to $24.99"   → 10.00
//	"free"               → false
func parsePrice(raw string) (decimal.Decimal, bool) {
	cleaned := strings.ReplaceAll(raw, ",", "")
	match := priceRegexp.FindString(cleaned)
	if match == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(match)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}
