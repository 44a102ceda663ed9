// Package store persists the sales dataset in BigQuery. The dashboard
// normally serves from the in-memory dataset; this layer backs the ingest
// path and lets the API load from the warehouse instead of a JSON file.
package store

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"

	"github.com/vinoventas/dashboard/internal/domain"
)

const moneyScale = 2

// SalesRow is the BigQuery representation of one sale line item.
type SalesRow struct {
	Code        string `bigquery:"code"`         // REQUIRED
	ProductName string `bigquery:"product_name"` // REQUIRED

	Quantity         *big.Rat `bigquery:"quantity"`           // REQUIRED NUMERIC
	UnitPrice        *big.Rat `bigquery:"unit_price"`         // NULLABLE NUMERIC
	NetAmount        *big.Rat `bigquery:"net_amount"`         // NULLABLE NUMERIC
	Discount         *big.Rat `bigquery:"discount"`           // NULLABLE NUMERIC
	NetAfterDiscount *big.Rat `bigquery:"net_after_discount"` // NULLABLE NUMERIC
	Tax              *big.Rat `bigquery:"tax"`                // NULLABLE NUMERIC
	Total            *big.Rat `bigquery:"total"`              // REQUIRED NUMERIC

	CustomerName string `bigquery:"customer_name"` // NULLABLE
	CustomerID   int64  `bigquery:"customer_id"`   // REQUIRED

	Year        int64  `bigquery:"year"`        // REQUIRED
	Month       string `bigquery:"month"`       // REQUIRED
	Salesperson string `bigquery:"salesperson"` // NULLABLE
	Brand       string `bigquery:"brand"`       // NULLABLE

	IngestDate civil.Date `bigquery:"ingest_date"` // REQUIRED, partition key
}

// SalesRepository abstracts the warehouse so the API and ingest binary can
// be tested against a fake.
type SalesRepository interface {
	ListAllSales(ctx context.Context) ([]domain.SaleRecord, error)
	InsertSales(ctx context.Context, records []domain.SaleRecord) error
	Close() error
}

// Client wraps a BigQuery client bound to one sales table.
type Client struct {
	bq      *bigquery.Client
	dataset string
	table   string
}

// NewClient opens a BigQuery client for the given project, dataset and table.
func NewClient(ctx context.Context, projectID, dataset, table string) (*Client, error) {
	bq, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("bigquery client: %w", err)
	}
	return &Client{bq: bq, dataset: dataset, table: table}, nil
}

// Close releases the underlying client.
func (c *Client) Close() error {
	return c.bq.Close()
}

// InsertSales writes sale records through the streaming inserter.
func (c *Client) InsertSales(ctx context.Context, records []domain.SaleRecord) error {
	if len(records) == 0 {
		return nil
	}

	today := civil.DateOf(time.Now())
	rows := make([]*SalesRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, toRow(r, today))
	}

	inserter := c.bq.Dataset(c.dataset).Table(c.table).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertSales: inserting rows: %w", err)
	}
	return nil
}

// ListAllSales reads the entire sales table back into domain records,
// latest ingest first so re-ingested datasets win.
func (c *Client) ListAllSales(ctx context.Context) ([]domain.SaleRecord, error) {
	q := c.bq.Query(fmt.Sprintf(`
		SELECT
			code, product_name, quantity, unit_price, net_amount, discount,
			net_after_discount, tax, total, customer_name, customer_id,
			year, month, salesperson, brand, ingest_date
		FROM %s.%s
		ORDER BY ingest_date DESC, year, month, code
	`, c.dataset, c.table))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListAllSales: query read: %w", err)
	}

	var records []domain.SaleRecord
	for {
		var row SalesRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListAllSales: iter next: %w", err)
		}
		records = append(records, fromRow(row))
	}
	return records, nil
}

func toRow(r domain.SaleRecord, ingest civil.Date) *SalesRow {
	return &SalesRow{
		Code:             r.Code,
		ProductName:      r.ProductName,
		Quantity:         r.Quantity.Rat(),
		UnitPrice:        r.UnitPrice.Rat(),
		NetAmount:        r.NetAmount.Rat(),
		Discount:         r.Discount.Rat(),
		NetAfterDiscount: r.NetAfterDiscount.Rat(),
		Tax:              r.Tax.Rat(),
		Total:            r.Total.Rat(),
		CustomerName:     r.CustomerName,
		CustomerID:       r.CustomerID,
		Year:             int64(r.Year),
		Month:            r.Month,
		Salesperson:      r.Salesperson,
		Brand:            r.Brand,
		IngestDate:       ingest,
	}
}

func fromRow(row SalesRow) domain.SaleRecord {
	return domain.SaleRecord{
		Code:             row.Code,
		ProductName:      row.ProductName,
		Quantity:         fromRat(row.Quantity),
		UnitPrice:        fromRat(row.UnitPrice),
		NetAmount:        fromRat(row.NetAmount),
		Discount:         fromRat(row.Discount),
		NetAfterDiscount: fromRat(row.NetAfterDiscount),
		Tax:              fromRat(row.Tax),
		Total:            fromRat(row.Total),
		CustomerName:     row.CustomerName,
		CustomerID:       row.CustomerID,
		Year:             int(row.Year),
		Month:            row.Month,
		Salesperson:      row.Salesperson,
		Brand:            row.Brand,
	}
}

func fromRat(r *big.Rat) decimal.Decimal {
	if r == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigRat(r, moneyScale)
}

var _ SalesRepository = (*Client)(nil)
