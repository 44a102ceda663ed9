package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vinoventas/dashboard/internal/domain"
)

// ProductSales accumulates sales for one product name. Product aggregation
// keys on the display name, not the code: the same name can appear under
// several codes and is treated as one product.
type ProductSales struct {
	Name     string          `json:"nombre"`
	Total    decimal.Decimal `json:"total"`
	Quantity decimal.Decimal `json:"cantidad"`
}

// SalespersonSales accumulates sales for one salesperson.
type SalespersonSales struct {
	Name         string          `json:"nombre"`
	Total        decimal.Decimal `json:"total"`
	Quantity     decimal.Decimal `json:"cantidad"`
	Transactions int             `json:"transacciones"`
}

// BrandSales accumulates sales for one brand.
type BrandSales struct {
	Name  string          `json:"nombre"`
	Total decimal.Decimal `json:"total"`
}

// MonthlySales accumulates sales for one calendar month. Label carries the
// three-letter form used on chart axes.
type MonthlySales struct {
	Month    string          `json:"mes"`
	Label    string          `json:"etiqueta"`
	Total    decimal.Decimal `json:"total"`
	Quantity decimal.Decimal `json:"cantidad"`
}

// CustomerSales accumulates sales for one customer, keyed by the
// (name, id) pair. Name alone is ambiguous; ID alone loses the label.
type CustomerSales struct {
	Name         string          `json:"nombre"`
	ID           int64           `json:"id"`
	Total        decimal.Decimal `json:"total"`
	Quantity     decimal.Decimal `json:"cantidad"`
	Transactions int             `json:"transacciones"`
}

// BrandCustomers is one row of the customer-by-brand cross-tab: a brand's
// overall total plus its customers ranked by what they bought of that brand.
type BrandCustomers struct {
	Brand     string          `json:"marca"`
	Total     decimal.Decimal `json:"totalMarca"`
	Customers []CustomerSales `json:"clientes"`
}

// customerKey is the composite grouping key for customer aggregation.
type customerKey struct {
	name string
	id   int64
}

// All ranking functions sort descending by total with sort.SliceStable, so
// records with equal totals keep their first-encountered input order. That is
// the only tie-break rule; tests rely on it.

// ProductRanking groups records by product name and returns the full ranking.
func ProductRanking(records []domain.SaleRecord) []ProductSales {
	idx := make(map[string]int)
	var out []ProductSales
	for _, r := range records {
		i, ok := idx[r.ProductName]
		if !ok {
			i = len(out)
			idx[r.ProductName] = i
			out = append(out, ProductSales{Name: r.ProductName})
		}
		out[i].Total = out[i].Total.Add(r.Total)
		out[i].Quantity = out[i].Quantity.Add(r.Quantity)
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Total.GreaterThan(out[b].Total)
	})
	return out
}

// TopProducts returns the n best-selling products (10 on the dashboard).
func TopProducts(records []domain.SaleRecord, n int) []ProductSales {
	ranked := ProductRanking(records)
	return ranked[:min(n, len(ranked))]
}

// SalespersonRanking groups records by salesperson; empty names fall into
// the "Sin asignar" bucket. The full ranking is kept, never truncated.
func SalespersonRanking(records []domain.SaleRecord) []SalespersonSales {
	idx := make(map[string]int)
	var out []SalespersonSales
	for _, r := range records {
		name := r.Salesperson
		if name == "" {
			name = domain.UnassignedSalesperson
		}
		i, ok := idx[name]
		if !ok {
			i = len(out)
			idx[name] = i
			out = append(out, SalespersonSales{Name: name})
		}
		out[i].Total = out[i].Total.Add(r.Total)
		out[i].Quantity = out[i].Quantity.Add(r.Quantity)
		out[i].Transactions++
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Total.GreaterThan(out[b].Total)
	})
	return out
}

// BrandRanking groups records by brand; empty brands fall into "Sin marca".
func BrandRanking(records []domain.SaleRecord) []BrandSales {
	idx := make(map[string]int)
	var out []BrandSales
	for _, r := range records {
		name := r.Brand
		if name == "" {
			name = domain.UnbrandedLabel
		}
		i, ok := idx[name]
		if !ok {
			i = len(out)
			idx[name] = i
			out = append(out, BrandSales{Name: name})
		}
		out[i].Total = out[i].Total.Add(r.Total)
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Total.GreaterThan(out[b].Total)
	})
	return out
}

// TopBrands returns the n best-selling brands (10 on the dashboard).
func TopBrands(records []domain.SaleRecord, n int) []BrandSales {
	ranked := BrandRanking(records)
	return ranked[:min(n, len(ranked))]
}

// MonthlyTotals groups records by month and returns the buckets in canonical
// calendar order (Enero first), skipping months with no sales. Month labels
// outside the calendar vocabulary are appended after the known months.
func MonthlyTotals(records []domain.SaleRecord) []MonthlySales {
	idx := make(map[string]int)
	var buckets []MonthlySales
	for _, r := range records {
		i, ok := idx[r.Month]
		if !ok {
			i = len(buckets)
			idx[r.Month] = i
			buckets = append(buckets, MonthlySales{
				Month: r.Month,
				Label: domain.ShortMonth(r.Month),
			})
		}
		buckets[i].Total = buckets[i].Total.Add(r.Total)
		buckets[i].Quantity = buckets[i].Quantity.Add(r.Quantity)
	}

	out := make([]MonthlySales, 0, len(buckets))
	for _, m := range domain.Months {
		if i, ok := idx[m]; ok {
			out = append(out, buckets[i])
		}
	}
	for _, b := range buckets {
		if domain.MonthIndex(b.Month) == -1 {
			out = append(out, b)
		}
	}
	return out
}

// CustomerRanking groups records by (name, id) and returns the full ranking.
// Empty customer names are relabeled "Sin nombre" but keep their ID.
func CustomerRanking(records []domain.SaleRecord) []CustomerSales {
	idx := make(map[customerKey]int)
	var out []CustomerSales
	for _, r := range records {
		name := r.CustomerName
		if name == "" {
			name = domain.UnnamedCustomer
		}
		key := customerKey{name: name, id: r.CustomerID}
		i, ok := idx[key]
		if !ok {
			i = len(out)
			idx[key] = i
			out = append(out, CustomerSales{Name: name, ID: r.CustomerID})
		}
		out[i].Total = out[i].Total.Add(r.Total)
		out[i].Quantity = out[i].Quantity.Add(r.Quantity)
		out[i].Transactions++
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Total.GreaterThan(out[b].Total)
	})
	return out
}

// TopCustomers returns the n biggest customers (15 on the dashboard).
func TopCustomers(records []domain.SaleRecord, n int) []CustomerSales {
	ranked := CustomerRanking(records)
	return ranked[:min(n, len(ranked))]
}

// CustomersByBrand builds the two-level cross-tab: brands ranked by overall
// total, each carrying its full customer list ranked by what those customers
// bought under that brand alone.
func CustomersByBrand(records []domain.SaleRecord) []BrandCustomers {
	brandIdx := make(map[string]int)
	customerIdx := make(map[string]map[customerKey]int)
	var out []BrandCustomers

	for _, r := range records {
		brand := r.Brand
		if brand == "" {
			brand = domain.UnbrandedLabel
		}
		bi, ok := brandIdx[brand]
		if !ok {
			bi = len(out)
			brandIdx[brand] = bi
			customerIdx[brand] = make(map[customerKey]int)
			out = append(out, BrandCustomers{Brand: brand})
		}
		out[bi].Total = out[bi].Total.Add(r.Total)

		name := r.CustomerName
		if name == "" {
			name = domain.UnnamedCustomer
		}
		key := customerKey{name: name, id: r.CustomerID}
		ci, ok := customerIdx[brand][key]
		if !ok {
			ci = len(out[bi].Customers)
			customerIdx[brand][key] = ci
			out[bi].Customers = append(out[bi].Customers, CustomerSales{Name: name, ID: r.CustomerID})
		}
		c := &out[bi].Customers[ci]
		c.Total = c.Total.Add(r.Total)
		c.Quantity = c.Quantity.Add(r.Quantity)
		c.Transactions++
	}

	for bi := range out {
		customers := out[bi].Customers
		sort.SliceStable(customers, func(a, b int) bool {
			return customers[a].Total.GreaterThan(customers[b].Total)
		})
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Total.GreaterThan(out[b].Total)
	})
	return out
}

// TopBrandCustomers narrows the cross-tab to the brandN top brands, each with
// its customerN top customers (5 brands × 3 customers in the chat context).
func TopBrandCustomers(records []domain.SaleRecord, brandN, customerN int) []BrandCustomers {
	crossed := CustomersByBrand(records)
	crossed = crossed[:min(brandN, len(crossed))]
	out := make([]BrandCustomers, len(crossed))
	for i, bc := range crossed {
		bc.Customers = bc.Customers[:min(customerN, len(bc.Customers))]
		out[i] = bc
	}
	return out
}
