package domain

// Sentinel values meaning "do not filter on this dimension". The dataset is
// Spanish-labeled, so the feminine form is used for the brand dimension.
const (
	AllValue    = "Todos"
	AllFeminine = "Todas"
)

// FilterConfig selects a subset of records. Each field holds either a
// sentinel "all" value or an exact-match string. Year is matched against the
// record's numeric year rendered as a string.
type FilterConfig struct {
	Year        string `json:"año"`
	Month       string `json:"mes"`
	Salesperson string `json:"vendedor"`
	Brand       string `json:"marca"`
	Product     string `json:"producto"`
}

// DefaultFilter returns a configuration that matches every record.
func DefaultFilter() FilterConfig {
	return FilterConfig{
		Year:        AllValue,
		Month:       AllValue,
		Salesperson: AllValue,
		Brand:       AllFeminine,
		Product:     AllValue,
	}
}

// IsAll reports whether a filter value is one of the "all" sentinels.
// An empty value is treated as "all" so zero-valued configs are harmless.
func IsAll(v string) bool {
	return v == "" || v == AllValue || v == AllFeminine
}

// Active returns the dimensions that actually constrain the record set,
// as "Label: value" strings in a fixed order.
func (f FilterConfig) Active() []string {
	var out []string
	if !IsAll(f.Year) {
		out = append(out, "Año: "+f.Year)
	}
	if !IsAll(f.Month) {
		out = append(out, "Mes: "+f.Month)
	}
	if !IsAll(f.Salesperson) {
		out = append(out, "Vendedor: "+f.Salesperson)
	}
	if !IsAll(f.Brand) {
		out = append(out, "Marca: "+f.Brand)
	}
	if !IsAll(f.Product) {
		out = append(out, "Producto: "+f.Product)
	}
	return out
}

// ComparisonMode selects how the comparison period is derived from the
// current filter.
type ComparisonMode string

const (
	// ModePreviousPeriod steps back one month (or one year when no month is
	// selected), wrapping Enero into Diciembre of the prior year.
	ModePreviousPeriod ComparisonMode = "periodo-anterior"
	// ModeSamePeriodPriorYear keeps the month and decrements the year.
	ModeSamePeriodPriorYear ComparisonMode = "mismo-periodo-año-anterior"
	// ModeCustom leaves the comparison filter entirely to the caller.
	ModeCustom ComparisonMode = "personalizado"
)

// ComparisonConfig holds the period-comparison state owned by the
// presentation layer. Created inactive; Activate derives the comparison
// filter, Deactivate discards it.
type ComparisonConfig struct {
	Active           bool           `json:"activo"`
	Mode             ComparisonMode `json:"tipo"`
	ComparisonFilter *FilterConfig  `json:"periodoComparacion,omitempty"`
}
