package services

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"deal-scanner/models"
)

type demoDeal struct {
	title     string
	price     string
	avg       string
	discount  int
	savings   string
	condition string
	location  string
	soldCount int
	model     string
	timeLeft  string
	bids      int
}

// {label} is the capitalised query, {QUERY} the upper-cased one.
var demoCatalog = []demoDeal{
	{"{label} D3500 DSLR Camera with 18-55mm VR Lens - Excellent Condition", "89.99", "129.99", 31, "40.00", "Excellent", "California, US", 15, "{QUERY} D3500", "2h 15m", 3},
	{"Vintage {label} FE 35mm Film Camera - Working Condition", "45.50", "75.00", 39, "29.50", "Good", "New York, US", 8, "{QUERY} FE", "45 minutes", 7},
	{"{label} 50mm f/1.8 Prime Lens - Like New in Box", "156.00", "199.99", 22, "43.99", "New", "Texas, US", 25, "{QUERY} 50mm", "5h 30m", 12},
	{"Professional {label} Flash Speedlight - Barely Used", "78.25", "120.00", 35, "41.75", "Excellent", "Florida, US", 18, "{QUERY} SB-700", "1h 22m", 5},
}

// DemoDeals returns the fixed synthetic deal set labelled with query,
// keeping only deals priced at or below maxPrice. Output depends on its
// arguments alone.
func DemoDeals(query string, maxPrice decimal.Decimal) []models.Deal {
	label := capitalize(query)
	upper := strings.ToUpper(query)

	deals := make([]models.Deal, 0, len(demoCatalog))
	for i, d := range demoCatalog {
		price := decimal.RequireFromString(d.price)
		if price.GreaterThan(maxPrice) {
			continue
		}
		n := i + 1
		deals = append(deals, models.Deal{
			ItemID:          "demo-item-" + strconv.Itoa(n),
			Title:           strings.ReplaceAll(d.title, "{label}", label),
			CurrentPrice:    price,
			AvgSoldPrice:    decimal.RequireFromString(d.avg),
			DiscountPercent: d.discount,
			Savings:         decimal.RequireFromString(d.savings),
			Condition:       d.condition,
			Location:        d.location,
			ItemURL:         "https://ebay.com/demo-item-" + strconv.Itoa(n),
			ImageURL:        "https://i.ebayimg.com/images/g/demo" + strconv.Itoa(n) + ".jpg",
			SoldCount:       d.soldCount,
			Model:           strings.ReplaceAll(d.model, "{QUERY}", upper),
			ListingType:     models.ListingAuction,
			TimeLeft:        d.timeLeft,
			BidCount:        d.bids,
			Urgency:         ClassifyUrgency(d.timeLeft),
		})
	}
	return deals
}

// capitalize upper-cases the first letter of s and lower-cases the rest.
func capitalize(s string) string {
	runes := []rune(strings.ToLower(s))
	if len(runes) > 0 {
		runes[0] = unicode.ToUpper(runes[0])
	}
	return string(runes)
}
