// Package dataset loads the sales dataset and exposes the filter vocabulary
// derived from it. The dataset is assumed well-formed and fully loaded before
// any engine operation runs; no validation beyond JSON decoding happens here.
package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/vinoventas/dashboard/internal/domain"
)

// Load decodes a ventas_data.json stream into sale records.
func Load(r io.Reader) ([]domain.SaleRecord, error) {
	var records []domain.SaleRecord
	dec := json.NewDecoder(r)
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode sales dataset: %w", err)
	}
	return records, nil
}

// LoadFile reads the dataset from a local JSON file.
func LoadFile(path string) ([]domain.SaleRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %q: %w", path, err)
	}
	defer f.Close()

	records, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("dataset %q: %w", path, err)
	}
	return records, nil
}
