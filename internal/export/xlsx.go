// Package export renders the filtered dataset and its aggregates into an
// Excel workbook for offline analysis.
package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/vinoventas/dashboard/internal/analytics"
	"github.com/vinoventas/dashboard/internal/domain"
)

// Sheet names, in workbook order.
const (
	SheetData         = "Datos"
	SheetSummary      = "Resumen"
	SheetTopProducts  = "Top Productos"
	SheetTopCustomers = "Top Clientes"
	SheetSalespeople  = "Por Vendedor"
)

const rankingLimit = 20

// BuildWorkbook assembles the five-sheet report over the already-filtered
// records. The caller owns closing the returned file.
func BuildWorkbook(records []domain.SaleRecord, filters domain.FilterConfig) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), SheetData); err != nil {
		return nil, fmt.Errorf("rename data sheet: %w", err)
	}
	for _, name := range []string{SheetSummary, SheetTopProducts, SheetTopCustomers, SheetSalespeople} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", name, err)
		}
	}

	if err := writeDataSheet(f, records); err != nil {
		return nil, err
	}
	if err := writeSummarySheet(f, records, filters); err != nil {
		return nil, err
	}
	if err := writeTopProductsSheet(f, records); err != nil {
		return nil, err
	}
	if err := writeTopCustomersSheet(f, records); err != nil {
		return nil, err
	}
	if err := writeSalespeopleSheet(f, records); err != nil {
		return nil, err
	}

	return f, nil
}

// WriteFile builds the workbook and saves it at path.
func WriteFile(path string, records []domain.SaleRecord, filters domain.FilterConfig) error {
	f, err := BuildWorkbook(records, filters)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %q: %w", path, err)
	}
	return nil
}

func writeDataSheet(f *excelize.File, records []domain.SaleRecord) error {
	header := []interface{}{
		"Código", "Producto", "Cantidad", "Unidad", "Neto", "Descuento",
		"Neto-Desc.", "Impuesto", "Total", "Cliente", "ID Cliente",
		"Año", "Mes", "Vendedor", "Marca",
	}
	if err := f.SetSheetRow(SheetData, "A1", &header); err != nil {
		return fmt.Errorf("write data header: %w", err)
	}

	for i, r := range records {
		row := []interface{}{
			r.Code, r.ProductName, r.Quantity.InexactFloat64(), r.UnitPrice.InexactFloat64(),
			r.NetAmount.InexactFloat64(), r.Discount.InexactFloat64(), r.NetAfterDiscount.InexactFloat64(),
			r.Tax.InexactFloat64(), r.Total.InexactFloat64(), r.CustomerName, r.CustomerID,
			r.Year, r.Month, r.Salesperson, r.Brand,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(SheetData, cell, &row); err != nil {
			return fmt.Errorf("write data row %d: %w", i+2, err)
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, records []domain.SaleRecord, filters domain.FilterConfig) error {
	s := analytics.Summarize(records)

	appliedFilters := "Ninguno"
	if active := filters.Active(); len(active) > 0 {
		appliedFilters = strings.Join(active, ", ")
	}

	rows := [][]interface{}{
		{"Métrica", "Valor"},
		{"Ventas Totales", s.TotalSales.InexactFloat64()},
		{"Unidades Vendidas", s.TotalUnits.InexactFloat64()},
		{"Transacciones", s.Transactions},
		{"Clientes Únicos", s.UniqueCustomers},
		{"Ticket Promedio", s.AverageTicket.InexactFloat64()},
		{"Filtros Aplicados", appliedFilters},
	}
	return writeRows(f, SheetSummary, rows)
}

func writeTopProductsSheet(f *excelize.File, records []domain.SaleRecord) error {
	rows := [][]interface{}{{"Posición", "Producto", "Ventas", "Unidades"}}
	for i, p := range analytics.TopProducts(records, rankingLimit) {
		rows = append(rows, []interface{}{i + 1, p.Name, p.Total.InexactFloat64(), p.Quantity.InexactFloat64()})
	}
	return writeRows(f, SheetTopProducts, rows)
}

func writeTopCustomersSheet(f *excelize.File, records []domain.SaleRecord) error {
	rows := [][]interface{}{{"Posición", "Cliente", "ID Cliente", "Ventas", "Compras", "Unidades", "Ticket Promedio"}}
	for i, c := range analytics.TopCustomers(records, rankingLimit) {
		ticket := analytics.SafeAverage(c.Total, c.Transactions)
		rows = append(rows, []interface{}{
			i + 1, c.Name, c.ID, c.Total.InexactFloat64(), c.Transactions,
			c.Quantity.InexactFloat64(), ticket.InexactFloat64(),
		})
	}
	return writeRows(f, SheetTopCustomers, rows)
}

func writeSalespeopleSheet(f *excelize.File, records []domain.SaleRecord) error {
	rows := [][]interface{}{{"Vendedor", "Ventas", "Unidades", "Transacciones"}}
	for _, s := range analytics.SalespersonRanking(records) {
		rows = append(rows, []interface{}{s.Name, s.Total.InexactFloat64(), s.Quantity.InexactFloat64(), s.Transactions})
	}
	return writeRows(f, SheetSalespeople, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
