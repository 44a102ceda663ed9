package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/vinoventas/dashboard/internal/domain"
)

// Summary holds the headline KPIs for a record set.
type Summary struct {
	TotalSales      decimal.Decimal `json:"ventasTotales"`
	TotalUnits      decimal.Decimal `json:"unidadesVendidas"`
	Transactions    int             `json:"transacciones"`
	UniqueCustomers int             `json:"clientesUnicos"`
	AverageTicket   decimal.Decimal `json:"ticketPromedio"`
}

// Summarize computes the KPI block for a record set. Unique customers are
// counted by customer ID. The average ticket is zero for an empty set; the
// same zero-on-empty rule applies to every average in this package.
func Summarize(records []domain.SaleRecord) Summary {
	s := Summary{Transactions: len(records)}
	seen := make(map[int64]struct{})
	for _, r := range records {
		s.TotalSales = s.TotalSales.Add(r.Total)
		s.TotalUnits = s.TotalUnits.Add(r.Quantity)
		seen[r.CustomerID] = struct{}{}
	}
	s.UniqueCustomers = len(seen)
	s.AverageTicket = SafeAverage(s.TotalSales, s.Transactions)
	return s
}

// SafeAverage divides a total by a count, returning zero when the count is
// zero instead of faulting.
func SafeAverage(total decimal.Decimal, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(count)))
}
