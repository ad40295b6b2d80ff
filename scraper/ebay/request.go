package ebay

import (
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"deal-scanner/models"
)

// Operation is a marketplace search call.
type Operation string

const (
	OpFindByKeywords Operation = "findItemsByKeywords"
	OpFindAdvanced   Operation = "findItemsAdvanced"
	OpFindCompleted  Operation = "findCompletedItems"
	OpFindByID       Operation = "findItemsByItemID"
)

// Filter names understood by the search capability.
const (
	FilterMaxPrice      = "MaxPrice"
	FilterEndTimeFrom   = "EndTimeFrom"
	FilterEndTimeTo     = "EndTimeTo"
	FilterListingType   = "ListingType"
	FilterCondition     = "Condition"
	FilterSoldItemsOnly = "SoldItemsOnly"
)

// MaxPriceFilter caps the current price in currency.
func MaxPriceFilter(max decimal.Decimal, currency string) models.Filter {
	f := models.NewFilter(FilterMaxPrice, max.String())
	f.ParamName = "Currency"
	f.ParamValue = currency
	return f
}

// EndTimeFilter bounds listing end times. name is FilterEndTimeFrom or
// FilterEndTimeTo.
func EndTimeFilter(name string, t time.Time) models.Filter {
	return models.NewFilter(name, t.UTC().Format("2006-01-02T15:04:05.000Z"))
}

// Request is one backend call. Keywords may be empty for advanced search.
type Request struct {
	Operation  Operation
	Keywords   string
	ItemID     string
	Filters    []models.Filter
	Pagination models.Pagination
	SortOrder  models.SortOrder
}

// filter returns the first filter with the given name.
func (r Request) filter(name string) (models.Filter, bool) {
	for _, f := range r.Filters {
		if f.Name == name {
			return f, true
		}
	}
	return models.Filter{}, false
}

// encode renders the call-specific parameters in the Finding API
// name-value syntax, e.g. itemFilter(0).value(1)=Used.
func (r Request) encode(q url.Values) {
	if r.Operation == OpFindByID {
		q.Set("itemID", r.ItemID)
		return
	}

	q.Set("keywords", r.Keywords)
	for i, f := range r.Filters {
		prefix := "itemFilter(" + strconv.Itoa(i) + ")"
		q.Set(prefix+".name", f.Name)
		for j, v := range f.Values {
			q.Set(prefix+".value("+strconv.Itoa(j)+")", v)
		}
		if f.ParamName != "" {
			q.Set(prefix+".paramName", f.ParamName)
			q.Set(prefix+".paramValue", f.ParamValue)
		}
	}
	if r.Pagination.EntriesPerPage > 0 {
		q.Set("paginationInput.entriesPerPage", strconv.Itoa(r.Pagination.EntriesPerPage))
	}
	if r.Pagination.PageNumber > 0 {
		q.Set("paginationInput.pageNumber", strconv.Itoa(r.Pagination.PageNumber))
	}
	if r.SortOrder != models.SortBestMatch {
		q.Set("sortOrder", string(r.SortOrder))
	}
}
