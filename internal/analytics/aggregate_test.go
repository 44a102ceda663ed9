package analytics

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vinoventas/dashboard/internal/domain"
)

func sumTotal(records []domain.SaleRecord) decimal.Decimal {
	var sum decimal.Decimal
	for _, r := range records {
		sum = sum.Add(r.Total)
	}
	return sum
}

func TestConservationUnderPartition(t *testing.T) {
	records := testRecords()
	want := sumTotal(records)

	var productSum decimal.Decimal
	for _, p := range ProductRanking(records) {
		productSum = productSum.Add(p.Total)
	}
	if !productSum.Equal(want) {
		t.Errorf("product buckets sum to %s, want %s", productSum, want)
	}

	var brandSum decimal.Decimal
	for _, b := range BrandRanking(records) {
		brandSum = brandSum.Add(b.Total)
	}
	if !brandSum.Equal(want) {
		t.Errorf("brand buckets sum to %s, want %s", brandSum, want)
	}

	var monthSum decimal.Decimal
	for _, m := range MonthlyTotals(records) {
		monthSum = monthSum.Add(m.Total)
	}
	if !monthSum.Equal(want) {
		t.Errorf("month buckets sum to %s, want %s", monthSum, want)
	}

	var sellerSum decimal.Decimal
	for _, s := range SalespersonRanking(records) {
		sellerSum = sellerSum.Add(s.Total)
	}
	if !sellerSum.Equal(want) {
		t.Errorf("salesperson buckets sum to %s, want %s", sellerSum, want)
	}
}

func TestCustomerRanking_KeyedByNameAndID(t *testing.T) {
	records := []domain.SaleRecord{
		sale("A", "X", "S", "García", 1, 2023, "Enero", 100, 1),
		sale("B", "X", "S", "García", 2, 2023, "Enero", 50, 1),
	}

	got := CustomerRanking(records)
	if len(got) != 2 {
		t.Fatalf("same name with different IDs must produce 2 buckets, got %d", len(got))
	}
	if got[0].ID == got[1].ID {
		t.Errorf("expected distinct IDs, both are %d", got[0].ID)
	}
}

func TestCustomerRanking_DefaultsAndCounts(t *testing.T) {
	records := []domain.SaleRecord{
		sale("A", "X", "S", "", 7, 2023, "Enero", 100, 2),
		sale("B", "X", "S", "", 7, 2023, "Febrero", 50, 1),
	}

	got := CustomerRanking(records)
	if len(got) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(got))
	}
	c := got[0]
	if c.Name != domain.UnnamedCustomer {
		t.Errorf("empty name should become %q, got %q", domain.UnnamedCustomer, c.Name)
	}
	if c.Transactions != 2 {
		t.Errorf("transaction count = %d, want 2", c.Transactions)
	}
	if !c.Total.Equal(decimal.NewFromInt(150)) {
		t.Errorf("total = %s, want 150", c.Total)
	}
}

func TestMonthlyTotals_CanonicalOrder(t *testing.T) {
	records := []domain.SaleRecord{
		sale("A", "X", "S", "C", 1, 2023, "Marzo", 10, 1),
		sale("A", "X", "S", "C", 1, 2023, "Enero", 20, 1),
	}

	got := MonthlyTotals(records)
	if len(got) != 2 {
		t.Fatalf("expected 2 months, got %d", len(got))
	}
	if got[0].Month != "Enero" || got[1].Month != "Marzo" {
		t.Errorf("months out of calendar order: %q, %q", got[0].Month, got[1].Month)
	}
	if got[0].Label != "Ene" {
		t.Errorf("chart label = %q, want Ene", got[0].Label)
	}
}

func TestTopN_Truncation(t *testing.T) {
	records := testRecords()

	if got := TopProducts(records, 2); len(got) != 2 {
		t.Errorf("TopProducts(2) returned %d entries", len(got))
	}
	if got := TopProducts(records, 50); len(got) != 3 {
		t.Errorf("TopProducts(50) returned %d entries, want all 3", len(got))
	}
	if got := TopBrands(records, 1); len(got) != 1 {
		t.Errorf("TopBrands(1) returned %d entries", len(got))
	}
}

func TestRanking_StableTieBreak(t *testing.T) {
	records := []domain.SaleRecord{
		sale("Primero", "X", "S", "C", 1, 2023, "Enero", 100, 1),
		sale("Segundo", "X", "S", "C", 1, 2023, "Enero", 100, 1),
	}

	got := ProductRanking(records)
	if got[0].Name != "Primero" || got[1].Name != "Segundo" {
		t.Errorf("equal totals must preserve input order, got %q then %q", got[0].Name, got[1].Name)
	}
}

func TestSalespersonRanking_UnassignedBucket(t *testing.T) {
	records := []domain.SaleRecord{
		sale("A", "X", "", "C", 1, 2023, "Enero", 40, 1),
		sale("A", "X", "Sabrina", "C", 1, 2023, "Enero", 10, 1),
	}

	got := SalespersonRanking(records)
	if len(got) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(got))
	}
	if got[0].Name != domain.UnassignedSalesperson {
		t.Errorf("top salesperson = %q, want %q", got[0].Name, domain.UnassignedSalesperson)
	}
}

func TestNegativeTotalsNetOut(t *testing.T) {
	records := []domain.SaleRecord{
		sale("A", "X", "S", "C", 1, 2023, "Enero", 100, 2),
		sale("A", "X", "S", "C", 1, 2023, "Enero", -30, -1),
	}

	got := ProductRanking(records)
	if len(got) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(got))
	}
	if !got[0].Total.Equal(decimal.NewFromInt(70)) {
		t.Errorf("credits must net out: total = %s, want 70", got[0].Total)
	}
}

func TestCustomersByBrand_EndToEnd(t *testing.T) {
	// Fixture from the dashboard's cross-analysis contract: brand A carries
	// X (50) and Y (30); X also bought 10 under brand B.
	records := []domain.SaleRecord{
		sale("P1", "A", "S", "X", 1, 2023, "Enero", 50, 1),
		sale("P2", "A", "S", "Y", 2, 2023, "Enero", 30, 1),
		sale("P3", "B", "S", "X", 1, 2023, "Enero", 10, 1),
	}

	crossed := CustomersByBrand(records)
	if len(crossed) != 2 {
		t.Fatalf("expected 2 brands, got %d", len(crossed))
	}
	top := crossed[0]
	if top.Brand != "A" || !top.Total.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("top brand = %s (%s), want A (80)", top.Brand, top.Total)
	}
	if len(top.Customers) != 2 {
		t.Fatalf("brand A should list 2 customers, got %d", len(top.Customers))
	}
	if top.Customers[0].Name != "X" || !top.Customers[0].Total.Equal(decimal.NewFromInt(50)) {
		t.Errorf("brand A top customer = %s (%s), want X (50)", top.Customers[0].Name, top.Customers[0].Total)
	}
	if top.Customers[1].Name != "Y" || !top.Customers[1].Total.Equal(decimal.NewFromInt(30)) {
		t.Errorf("brand A second customer = %s (%s), want Y (30)", top.Customers[1].Name, top.Customers[1].Total)
	}

	// Per-customer totals within a brand must not leak across brands.
	overall := CustomerRanking(records)
	if overall[0].Name != "X" || !overall[0].Total.Equal(decimal.NewFromInt(60)) {
		t.Errorf("customer X across brands = %s, want 60", overall[0].Total)
	}
}

func TestTopBrandCustomers_Limits(t *testing.T) {
	records := testRecords()
	got := TopBrandCustomers(records, 1, 1)
	if len(got) != 1 {
		t.Fatalf("expected 1 brand, got %d", len(got))
	}
	if len(got[0].Customers) != 1 {
		t.Errorf("expected 1 customer for top brand, got %d", len(got[0].Customers))
	}
}

func TestAggregations_EmptyInput(t *testing.T) {
	if got := ProductRanking(nil); len(got) != 0 {
		t.Errorf("ProductRanking(nil) = %d buckets", len(got))
	}
	if got := MonthlyTotals(nil); len(got) != 0 {
		t.Errorf("MonthlyTotals(nil) = %d buckets", len(got))
	}
	if got := CustomersByBrand(nil); len(got) != 0 {
		t.Errorf("CustomersByBrand(nil) = %d buckets", len(got))
	}

	s := Summarize(nil)
	if !s.AverageTicket.IsZero() {
		t.Errorf("average ticket on empty input = %s, want 0", s.AverageTicket)
	}
	if s.UniqueCustomers != 0 || s.Transactions != 0 {
		t.Errorf("empty summary not zeroed: %+v", s)
	}
}

func TestSummarize(t *testing.T) {
	records := testRecords()
	s := Summarize(records)

	if !s.TotalSales.Equal(decimal.NewFromInt(1150)) {
		t.Errorf("total sales = %s, want 1150", s.TotalSales)
	}
	if !s.TotalUnits.Equal(decimal.NewFromInt(22)) {
		t.Errorf("total units = %s, want 22", s.TotalUnits)
	}
	if s.UniqueCustomers != 3 {
		t.Errorf("unique customers = %d, want 3", s.UniqueCustomers)
	}
	if want := decimal.NewFromFloat(287.5); !s.AverageTicket.Equal(want) {
		t.Errorf("average ticket = %s, want %s", s.AverageTicket, want)
	}
}
