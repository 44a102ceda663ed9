// Package analytics contains the pure data transforms behind the sales
// dashboard: filtering, grouped aggregation with ranked top-N views, KPI
// summaries and period-over-period comparison. Every function here is a pure
// function of its inputs; records are never mutated and no state survives
// between calls.
package analytics

import (
	"strconv"

	"github.com/vinoventas/dashboard/internal/domain"
)

// ApplyFilters returns the records matching every non-sentinel dimension of
// the filter. Dimensions compose with AND; an unknown value simply yields an
// empty result. The input slice is left untouched and its order is preserved.
func ApplyFilters(records []domain.SaleRecord, f domain.FilterConfig) []domain.SaleRecord {
	out := make([]domain.SaleRecord, 0, len(records))
	for _, r := range records {
		if matches(r, f) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r domain.SaleRecord, f domain.FilterConfig) bool {
	if !domain.IsAll(f.Year) && strconv.Itoa(r.Year) != f.Year {
		return false
	}
	if !domain.IsAll(f.Month) && r.Month != f.Month {
		return false
	}
	if !domain.IsAll(f.Salesperson) && r.Salesperson != f.Salesperson {
		return false
	}
	if !domain.IsAll(f.Brand) && r.Brand != f.Brand {
		return false
	}
	if !domain.IsAll(f.Product) && r.ProductName != f.Product {
		return false
	}
	return true
}
