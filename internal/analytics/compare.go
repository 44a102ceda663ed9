package analytics

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/vinoventas/dashboard/internal/domain"
)

// Change is the result of comparing a current metric against a prior one.
type Change struct {
	Prior      decimal.Decimal `json:"valorAnterior"`
	Delta      decimal.Decimal `json:"cambio"`
	Percentage decimal.Decimal `json:"porcentaje"`
}

// DerivePriorFilter computes the comparison-period filter for a mode.
//
// Same-period-prior-year keeps everything and decrements the year. Previous-
// period steps the month back one calendar position, wrapping Enero into
// Diciembre of the prior year; with no month selected it decrements the year
// instead. Both modes are no-ops when no concrete year is selected, and
// custom mode is always caller-supplied, so the input comes back unchanged.
func DerivePriorFilter(f domain.FilterConfig, mode domain.ComparisonMode) domain.FilterConfig {
	if domain.IsAll(f.Year) {
		return f
	}
	year, err := strconv.Atoi(f.Year)
	if err != nil {
		return f
	}

	switch mode {
	case domain.ModeSamePeriodPriorYear:
		f.Year = strconv.Itoa(year - 1)
		return f
	case domain.ModePreviousPeriod:
		if domain.IsAll(f.Month) {
			f.Year = strconv.Itoa(year - 1)
			return f
		}
		idx := domain.MonthIndex(f.Month)
		if idx == -1 {
			return f
		}
		if idx == 0 {
			f.Month = domain.Months[len(domain.Months)-1]
			f.Year = strconv.Itoa(year - 1)
		} else {
			f.Month = domain.Months[idx-1]
		}
		return f
	default:
		return f
	}
}

// Activate turns comparison on, deriving the comparison filter from the
// filter in effect right now. Re-activating with another mode re-derives
// from scratch; the previously stored comparison filter is never reused.
func Activate(current domain.FilterConfig, mode domain.ComparisonMode) domain.ComparisonConfig {
	prior := DerivePriorFilter(current, mode)
	return domain.ComparisonConfig{
		Active:           true,
		Mode:             mode,
		ComparisonFilter: &prior,
	}
}

// Deactivate turns comparison off and discards the derived filter.
func Deactivate() domain.ComparisonConfig {
	return domain.ComparisonConfig{Mode: domain.ModePreviousPeriod}
}

// ComputeChange returns the delta and percentage change of current against
// prior, or nil when prior is zero: percentage change against a zero base is
// undefined and must never surface as an infinity.
func ComputeChange(current, prior decimal.Decimal) *Change {
	if prior.IsZero() {
		return nil
	}
	delta := current.Sub(prior)
	return &Change{
		Prior:      prior,
		Delta:      delta,
		Percentage: delta.Div(prior).Mul(decimal.NewFromInt(100)),
	}
}

// ComputeCountChange is ComputeChange for integer metrics such as the
// unique-customer count.
func ComputeCountChange(current, prior int) *Change {
	return ComputeChange(decimal.NewFromInt(int64(current)), decimal.NewFromInt(int64(prior)))
}

// ComparisonLabel is the presentation caption for an active comparison.
func ComparisonLabel(cfg domain.ComparisonConfig, current domain.FilterConfig) string {
	if !cfg.Active {
		return ""
	}
	if cfg.Mode == domain.ModeSamePeriodPriorYear {
		return "vs Mismo período año anterior"
	}
	if !domain.IsAll(current.Month) {
		return "vs Mes anterior"
	}
	return "vs Año anterior"
}
