package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"deal-scanner/models"
	"deal-scanner/utils"
)

type ReportService struct {
	logger *utils.Logger
}

func NewReportService(logger *utils.Logger) *ReportService {
	return &ReportService{logger: logger}
}

func (s *ReportService) Generate(res models.DealResult) *models.DealReport {
	report := &models.DealReport{
		Query:          res.Query,
		Synthetic:      res.Synthetic,
		TotalSavings:   decimal.Zero,
		DealsByUrgency: make(map[models.Urgency]int),
	}

	if len(res.Results) == 0 {
		return report
	}

	report.TotalDeals = len(res.Results)

	var discountSum int
	for i := range res.Results {
		d := res.Results[i]
		discountSum += d.DiscountPercent
		report.TotalSavings = report.TotalSavings.Add(d.Savings)
		report.DealsByUrgency[d.Urgency]++
		if report.BestDeal == nil || d.DiscountPercent > report.BestDeal.DiscountPercent {
			report.BestDeal = &res.Results[i]
		}
	}
	report.AverageDiscount = round2(float64(discountSum) / float64(len(res.Results)))

	// Top 5 by discount
	top := append([]models.Deal(nil), res.Results...)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].DiscountPercent > top[j].DiscountPercent
	})
	if len(top) > 5 {
		top = top[:5]
	}
	report.TopDiscounts = top

	return report
}

func (s *ReportService) Print(w io.Writer, r *models.DealReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  DEALS FOR %q\033[0m\n", r.Query)
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Deals found      : \033[1m%d\033[0m\n", r.TotalDeals)
	if r.Synthetic {
		fmt.Fprintf(w, "  Source           : \033[1;31mdemo data (marketplace unavailable)\033[0m\n")
	}
	if r.TotalDeals > 0 {
		fmt.Fprintf(w, "  Average discount : \033[1;32m%.2f%%\033[0m\n", r.AverageDiscount)
		fmt.Fprintf(w, "  Total savings    : \033[1;32m$%s\033[0m\n", r.TotalSavings.StringFixed(2))
	}
	fmt.Fprintln(w)

	if r.BestDeal != nil {
		fmt.Fprintf(w, "\033[1;33m  Best Deal\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  %s\n", truncate(r.BestDeal.Title, 50))
		fmt.Fprintf(w, "  Price    : \033[1;32m$%s\033[0m (avg $%s, %d%% off)\n",
			r.BestDeal.CurrentPrice.StringFixed(2), r.BestDeal.AvgSoldPrice.StringFixed(2), r.BestDeal.DiscountPercent)
		fmt.Fprintf(w, "  Ends in  : %s\n", r.BestDeal.TimeLeft)
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\033[1;33m  Top Discounts\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.TopDiscounts) == 0 {
		fmt.Fprintf(w, "  No deals found\n")
	} else {
		for i, d := range r.TopDiscounts {
			fmt.Fprintf(w, "  \033[1m%d.\033[0m %-40s \033[1;32m%3d%%\033[0m $%s\n",
				i+1, truncate(d.Title, 38), d.DiscountPercent, d.CurrentPrice.StringFixed(2))
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Deals by Urgency\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, u := range []models.Urgency{models.UrgencyCritical, models.UrgencyHigh, models.UrgencyMedium, models.UrgencyLow} {
		if n := r.DealsByUrgency[u]; n > 0 {
			fmt.Fprintf(w, "  %-10s %s (%d)\n", u, strings.Repeat("█", n), n)
		}
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
