// Package aggregate computes the deterministic totals that the generative
// step is told about but never asked to produce.
package aggregate

import (
	"math"

	"github.com/de-tools/farm-insights/pkg/models/domain"
)

// Compute sums costs and revenue over records. No rounding is applied;
// presentation layers round.
func Compute(records []domain.FarmRecord) domain.Aggregate {
	var agg domain.Aggregate
	for _, r := range records {
		agg.TotalCost += r.Expenses
		agg.TotalRevenue += r.Revenue()
	}

	agg.TotalProfit = agg.TotalRevenue - agg.TotalCost
	if agg.TotalRevenue > 0 {
		agg.ProfitMargin = agg.TotalProfit / agg.TotalRevenue
	}
	return agg
}

// Totals is Compute for untrusted records. Non-finite record values and
// totals that overflow float64 are input errors.
func Totals(records []domain.FarmRecord) (domain.Aggregate, error) {
	for i, r := range records {
		fields := []struct {
			name  string
			value float64
		}{
			{"expenses", r.Expenses},
			{"harvestQuantity", r.HarvestQuantity},
			{"marketPrice", r.MarketPrice},
		}
		for _, f := range fields {
			if !finite(f.value) {
				return domain.Aggregate{}, domain.Errorf(domain.KindInput, "record %d: %s is not a finite number", i, f.name)
			}
		}
	}

	agg := Compute(records)
	if !finite(agg.TotalCost) || !finite(agg.TotalRevenue) || !finite(agg.TotalProfit) || !finite(agg.ProfitMargin) {
		return domain.Aggregate{}, domain.Errorf(domain.KindInput, "farm record totals overflow")
	}
	return agg, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Sample returns at most limit records from the head of records.
func Sample(records []domain.FarmRecord, limit int) []domain.FarmRecord {
	if limit <= 0 || len(records) <= limit {
		return records
	}
	return records[:limit]
}
