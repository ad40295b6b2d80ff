package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"deal-scanner/models"
)

// Valuator scores listings against their baselines. It carries two
// independent thresholds: the undervalue ratio used by ending-soon alerts
// and the minimum discount a ranked deal must reach.
type Valuator struct {
	ratio       decimal.Decimal
	minDiscount int
}

// NewValuator creates a Valuator. ratio is the fraction of the baseline a
// price must stay under to count as undervalued.
func NewValuator(ratio float64, minDiscount int) *Valuator {
	return &Valuator{
		ratio:       decimal.NewFromFloat(ratio),
		minDiscount: minDiscount,
	}
}

// Evaluate values l against b. An absent or non-positive baseline gives a
// Valuation with Assessable unset. A non-positive price is rejected.
func (v *Valuator) Evaluate(l models.Listing, b models.Baseline) (models.Valuation, error) {
	price := l.CurrentPrice
	if !price.IsPositive() {
		return models.Valuation{}, fmt.Errorf("%w: price %s for %q", models.ErrInvalidInput, price, l.Title)
	}
	if !b.Present() || !b.Average.IsPositive() {
		return models.Valuation{}, nil
	}

	val := models.Valuation{
		Assessable:    true,
		IsUndervalued: price.LessThan(b.Average.Mul(v.ratio)),
	}
	if b.Average.GreaterThan(price) {
		diff := b.Average.Sub(price)
		val.Savings = diff
		val.DiscountPercent = int(diff.Mul(decimal.NewFromInt(100)).Div(b.Average).Round(0).IntPart())
	}
	return val, nil
}

// QualifiesAsDeal reports whether val clears the ranked-deal discount gate.
func (v *Valuator) QualifiesAsDeal(val models.Valuation) bool {
	return val.Assessable && val.DiscountPercent >= v.minDiscount
}
