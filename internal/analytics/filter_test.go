package analytics

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vinoventas/dashboard/internal/domain"
)

func sale(product, brand, salesperson, customer string, customerID int64, year int, month string, total int64, qty int64) domain.SaleRecord {
	return domain.SaleRecord{
		ProductName:  product,
		Brand:        brand,
		Salesperson:  salesperson,
		CustomerName: customer,
		CustomerID:   customerID,
		Year:         year,
		Month:        month,
		Total:        decimal.NewFromInt(total),
		Quantity:     decimal.NewFromInt(qty),
	}
}

func testRecords() []domain.SaleRecord {
	return []domain.SaleRecord{
		sale("Malbec Reserva", "Trapiche", "Sabrina", "La Cava", 1, 2023, "Enero", 500, 10),
		sale("Cabernet Premium", "Trapiche", "Sabrina", "El Rincón", 2, 2023, "Febrero", 300, 5),
		sale("Chardonnay", "Norton", "Carlos", "La Cava", 1, 2024, "Enero", 200, 4),
		sale("Malbec Reserva", "Trapiche", "Carlos", "Vinoteca Sur", 3, 2024, "Marzo", 150, 3),
	}
}

func TestApplyFilters(t *testing.T) {
	records := testRecords()

	tests := []struct {
		name   string
		filter domain.FilterConfig
		want   int
	}{
		{
			name:   "all sentinels match everything",
			filter: domain.DefaultFilter(),
			want:   4,
		},
		{
			name:   "year narrows by numeric year as string",
			filter: domain.FilterConfig{Year: "2023", Month: domain.AllValue, Salesperson: domain.AllValue, Brand: domain.AllFeminine, Product: domain.AllValue},
			want:   2,
		},
		{
			name:   "dimensions compose with AND",
			filter: domain.FilterConfig{Year: "2023", Month: "Enero", Salesperson: "Sabrina", Brand: "Trapiche", Product: domain.AllValue},
			want:   1,
		},
		{
			name:   "unknown value yields empty result, not an error",
			filter: domain.FilterConfig{Year: domain.AllValue, Month: domain.AllValue, Salesperson: "Nadie", Brand: domain.AllFeminine, Product: domain.AllValue},
			want:   0,
		},
		{
			name:   "product filter matches display name exactly",
			filter: domain.FilterConfig{Year: domain.AllValue, Month: domain.AllValue, Salesperson: domain.AllValue, Brand: domain.AllFeminine, Product: "Malbec Reserva"},
			want:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyFilters(records, tt.filter)
			if len(got) != tt.want {
				t.Errorf("ApplyFilters() returned %d records, want %d", len(got), tt.want)
			}
		})
	}
}

func TestApplyFilters_PreservesOrderAndInput(t *testing.T) {
	records := testRecords()
	got := ApplyFilters(records, domain.DefaultFilter())

	if len(got) != len(records) {
		t.Fatalf("identity filter returned %d records, want %d", len(got), len(records))
	}
	for i := range records {
		if got[i].ProductName != records[i].ProductName {
			t.Errorf("record %d out of order: got %q, want %q", i, got[i].ProductName, records[i].ProductName)
		}
	}
}

func TestApplyFilters_Idempotent(t *testing.T) {
	records := testRecords()
	f := domain.FilterConfig{Year: "2023", Month: domain.AllValue, Salesperson: domain.AllValue, Brand: domain.AllFeminine, Product: domain.AllValue}

	once := ApplyFilters(records, f)
	twice := ApplyFilters(once, f)

	if len(once) != len(twice) {
		t.Errorf("second application changed the result: %d vs %d records", len(once), len(twice))
	}
}

func TestApplyFilters_EmptyInput(t *testing.T) {
	got := ApplyFilters(nil, domain.DefaultFilter())
	if len(got) != 0 {
		t.Errorf("expected empty result for empty input, got %d records", len(got))
	}
}
