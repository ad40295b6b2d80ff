package models

import "github.com/shopspring/decimal"

// DealReport summarises one deal search for terminal output.
type DealReport struct {
	Query           string
	Synthetic       bool
	TotalDeals      int
	AverageDiscount float64
	TotalSavings    decimal.Decimal
	BestDeal        *Deal
	DealsByUrgency  map[Urgency]int
	TopDiscounts    []Deal
}
