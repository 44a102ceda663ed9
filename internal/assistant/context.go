// Package assistant turns the aggregation outputs into a textual brief for
// the hosted language model and interprets the model's reply, including the
// delimited filter-change directive it may embed.
package assistant

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vinoventas/dashboard/internal/analytics"
	"github.com/vinoventas/dashboard/internal/dataset"
	"github.com/vinoventas/dashboard/internal/domain"
)

// sampleLimit bounds how many raw records ride along in the prompt.
const sampleLimit = 200

// sampleRecord is the reduced field set sent as raw-data sample.
type sampleRecord struct {
	Cliente   string          `json:"cliente"`
	ClienteID int64           `json:"clienteId"`
	Producto  string          `json:"producto"`
	Marca     string          `json:"marca"`
	Vendedor  string          `json:"vendedor"`
	Total     decimal.Decimal `json:"total"`
	Cantidad  decimal.Decimal `json:"cantidad"`
	Mes       string          `json:"mes"`
	Año       int             `json:"año"`
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// BuildAnalysisContext renders the structured brief for the model: the valid
// filter vocabulary, the active filter state, every ranked aggregate over the
// filtered records, the directive contract, and a bounded raw sample.
func BuildAnalysisContext(filtered []domain.SaleRecord, vocab dataset.Vocabulary, filters domain.FilterConfig, question string) string {
	summary := analytics.Summarize(filtered)

	var b strings.Builder
	b.WriteString("Eres un asistente de análisis de ventas para una distribuidora de vinos.\n")
	b.WriteString("Analiza los datos y responde de manera clara, concisa y profesional en español.\n")
	b.WriteString("Usa formato de pesos ($X,XXX.XX) para cantidades monetarias.\n\n")

	b.WriteString("OPCIONES DISPONIBLES PARA FILTROS:\n")
	fmt.Fprintf(&b, "- Años: %s\n", strings.Join(vocab.Years, ", "))
	fmt.Fprintf(&b, "- Meses: %s\n", strings.Join(vocab.Months, ", "))
	fmt.Fprintf(&b, "- Vendedores: %s\n", strings.Join(vocab.Salespeople, ", "))
	brands := vocab.Brands
	suffix := ""
	if len(brands) > 20 {
		brands = brands[:20]
		suffix = "..."
	}
	fmt.Fprintf(&b, "- Marcas: %s%s\n\n", strings.Join(brands, ", "), suffix)

	b.WriteString("FILTROS ACTUALES:\n")
	if active := filters.Active(); len(active) > 0 {
		b.WriteString(strings.Join(active, ", "))
	} else {
		b.WriteString("Ninguno (mostrando todos los datos)")
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "RESUMEN DE DATOS (%d transacciones):\n", summary.Transactions)
	fmt.Fprintf(&b, "- Ventas totales: %s\n", money(summary.TotalSales))
	fmt.Fprintf(&b, "- Unidades vendidas: %s\n", summary.TotalUnits)
	fmt.Fprintf(&b, "- Ticket promedio: %s\n\n", money(summary.AverageTicket))

	b.WriteString("TOP 10 PRODUCTOS (por ventas):\n")
	for i, p := range analytics.TopProducts(filtered, 10) {
		fmt.Fprintf(&b, "%d. %s: %s (%s unidades)\n", i+1, p.Name, money(p.Total), p.Quantity)
	}

	b.WriteString("\nRANKING DE VENDEDORES:\n")
	for i, s := range analytics.SalespersonRanking(filtered) {
		fmt.Fprintf(&b, "%d. %s: %s (%s unidades)\n", i+1, s.Name, money(s.Total), s.Quantity)
	}

	b.WriteString("\nTOP 10 MARCAS:\n")
	for i, m := range analytics.TopBrands(filtered, 10) {
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, m.Name, money(m.Total))
	}

	b.WriteString("\nVENTAS POR MES:\n")
	for _, m := range analytics.MonthlyTotals(filtered) {
		fmt.Fprintf(&b, "%s: %s\n", m.Month, money(m.Total))
	}

	b.WriteString("\nTOP 15 CLIENTES (por ventas):\n")
	for i, c := range analytics.TopCustomers(filtered, 15) {
		fmt.Fprintf(&b, "%d. %s (ID: %d): %s en %d compras (%s unidades)\n",
			i+1, c.Name, c.ID, money(c.Total), c.Transactions, c.Quantity)
	}

	b.WriteString("\nTOP 5 MARCAS CON SUS PRINCIPALES CLIENTES:\n")
	for _, bc := range analytics.TopBrandCustomers(filtered, 5, 3) {
		fmt.Fprintf(&b, "\n%s (Total: %s):\n", bc.Brand, money(bc.Total))
		for i, c := range bc.Customers {
			fmt.Fprintf(&b, "  %d. %s (ID: %d): %s - %s unidades\n",
				i+1, c.Name, c.ID, money(c.Total), c.Quantity)
		}
	}

	b.WriteString("\n\nINSTRUCCIONES PARA CAMBIAR FILTROS:\n")
	b.WriteString("Si el usuario pide cambiar filtros, responde con un mensaje amigable\n")
	b.WriteString("confirmando el cambio seguido de UN bloque con el formato exacto:\n")
	b.WriteString(directiveOpen + `{"año": "2023", "mes": "Febrero", "vendedor": "Todos", "marca": "Todas", "producto": "Todos"}` + directiveClose + "\n")
	b.WriteString("- Los valores deben coincidir EXACTAMENTE con las opciones disponibles (case-sensitive).\n")
	b.WriteString("- Si el usuario no menciona un filtro, déjalo como \"Todos\" o \"Todas\".\n")
	b.WriteString("- Incluye siempre las cinco claves.\n")

	b.WriteString("\nMUESTRA DE DATOS RAW")
	sample := filtered
	if len(sample) > sampleLimit {
		sample = sample[:sampleLimit]
	}
	fmt.Fprintf(&b, " (%d de %d transacciones del período filtrado):\n", len(sample), len(filtered))
	reduced := make([]sampleRecord, 0, len(sample))
	for _, r := range sample {
		reduced = append(reduced, sampleRecord{
			Cliente:   r.CustomerName,
			ClienteID: r.CustomerID,
			Producto:  r.ProductName,
			Marca:     r.Brand,
			Vendedor:  r.Salesperson,
			Total:     r.Total,
			Cantidad:  r.Quantity,
			Mes:       r.Month,
			Año:       r.Year,
		})
	}
	if data, err := json.Marshal(reduced); err == nil {
		b.Write(data)
	}

	b.WriteString("\n\nPregunta del usuario: ")
	b.WriteString(question)

	return b.String()
}
