package models

// Filter is a single name/value constraint understood by the marketplace
// search capability. ParamName/ParamValue qualify the value, e.g. the
// currency of a price ceiling.
type Filter struct {
	Name       string
	Values     []string
	ParamName  string
	ParamValue string
}

// NewFilter builds a filter with one or more values.
func NewFilter(name string, values ...string) Filter {
	return Filter{Name: name, Values: values}
}

// Pagination bounds a search result page.
type Pagination struct {
	EntriesPerPage int
	PageNumber     int
}

// SortOrder names an upstream result ordering.
type SortOrder string

const (
	SortBestMatch               SortOrder = ""
	SortPricePlusShippingLowest SortOrder = "PricePlusShippingLowest"
	SortEndTimeSoonest          SortOrder = "EndTimeSoonest"
)
