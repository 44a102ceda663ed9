package domain

// Months is the canonical calendar order for the month dimension. Bucket
// iteration order is undefined, so any time-series view must re-order its
// output against this slice.
var Months = []string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// MonthIndex returns the zero-based calendar position of a month label,
// or -1 when the label is not part of the vocabulary.
func MonthIndex(name string) int {
	for i, m := range Months {
		if m == name {
			return i
		}
	}
	return -1
}

// ShortMonth returns the three-letter chart label for a month ("Enero" →
// "Ene"). Unknown labels are returned unchanged.
func ShortMonth(name string) string {
	if MonthIndex(name) == -1 || len(name) < 3 {
		return name
	}
	return name[:3]
}
