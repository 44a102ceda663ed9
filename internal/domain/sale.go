package domain

import (
	"github.com/shopspring/decimal"
)

// SaleRecord is one line item of a sale as loaded from the dataset.
// JSON tags match the column names of ventas_data.json, which is generated
// from the distributor's master sales spreadsheet. Records are treated as
// immutable once loaded; every engine operation is read-only.
type SaleRecord struct {
	Code             string          `json:"Código"`
	ProductName      string          `json:"Nombre (Producto,Servicio,Paquete)"`
	Quantity         decimal.Decimal `json:"Cantidad"`
	UnitPrice        decimal.Decimal `json:"Unidad"`
	NetAmount        decimal.Decimal `json:"Neto"`
	Discount         decimal.Decimal `json:"Descuento"`
	NetAfterDiscount decimal.Decimal `json:"Neto-Desc."`
	Tax              decimal.Decimal `json:"Impuesto"`

	// Total is the signed amount summed by every sales aggregation.
	// Returns and credits are negative and net out; they are never excluded.
	Total decimal.Decimal `json:"Total"`

	// CustomerName is a display name only. Two customers can share a name,
	// so customer aggregation always keys on (CustomerName, CustomerID).
	CustomerName string `json:"Nombre"`
	CustomerID   int64  `json:"Cliente"`

	Year        int    `json:"Año"`
	Month       string `json:"Mes"`
	Salesperson string `json:"Vendedor"`
	Brand       string `json:"Marca"`
}

// Fallback labels for empty dimension values. Every record must land in
// exactly one bucket, so empty values are relabeled instead of dropped.
const (
	UnassignedSalesperson = "Sin asignar"
	UnbrandedLabel        = "Sin marca"
	UnnamedCustomer       = "Sin nombre"
)
