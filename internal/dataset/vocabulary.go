package dataset

import (
	"sort"
	"strconv"

	"github.com/vinoventas/dashboard/internal/domain"
)

// Vocabulary enumerates the valid values of every filter dimension, as found
// in the full (unfiltered) dataset. Months come from the fixed calendar
// vocabulary rather than the data.
type Vocabulary struct {
	Years       []string `json:"años"`
	Months      []string `json:"meses"`
	Salespeople []string `json:"vendedores"`
	Brands      []string `json:"marcas"`
	Products    []string `json:"productos"`
}

// ExtractVocabulary collects the distinct dimension values from the dataset.
// Empty salesperson and brand values are skipped, matching the option lists
// presented to the user; products keep every distinct display name.
func ExtractVocabulary(records []domain.SaleRecord) Vocabulary {
	years := make(map[string]struct{})
	sellers := make(map[string]struct{})
	brands := make(map[string]struct{})
	products := make(map[string]struct{})

	for _, r := range records {
		years[strconv.Itoa(r.Year)] = struct{}{}
		if r.Salesperson != "" {
			sellers[r.Salesperson] = struct{}{}
		}
		if r.Brand != "" {
			brands[r.Brand] = struct{}{}
		}
		products[r.ProductName] = struct{}{}
	}

	return Vocabulary{
		Years:       sortedKeys(years),
		Months:      append([]string(nil), domain.Months...),
		Salespeople: sortedKeys(sellers),
		Brands:      sortedKeys(brands),
		Products:    sortedKeys(products),
	}
}

// ValidFor reports whether a filter value is acceptable for a dimension:
// either that dimension's "all" sentinel or a value present in the dataset.
func (v Vocabulary) ValidFor(dimension, value string) bool {
	if domain.IsAll(value) {
		return true
	}
	switch dimension {
	case "año":
		return contains(v.Years, value)
	case "mes":
		return contains(v.Months, value)
	case "vendedor":
		return contains(v.Salespeople, value)
	case "marca":
		return contains(v.Brands, value)
	case "producto":
		return contains(v.Products, value)
	default:
		return false
	}
}

// ValidFilter checks every dimension of a filter against the vocabulary.
func (v Vocabulary) ValidFilter(f domain.FilterConfig) bool {
	return v.ValidFor("año", f.Year) &&
		v.ValidFor("mes", f.Month) &&
		v.ValidFor("vendedor", f.Salesperson) &&
		v.ValidFor("marca", f.Brand) &&
		v.ValidFor("producto", f.Product)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
