package datasets

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
)

// CSVDataset stores tabular data as [][]string rows.
type CSVDataset struct {
	fileDataset
	// Comma is the field delimiter. Zero means ','.
	Comma rune
}

// NewCSVDataset creates a CSV dataset backed by the given path.
func NewCSVDataset(path string) *CSVDataset {
	return &CSVDataset{fileDataset: fileDataset{path: path}}
}

func (d *CSVDataset) Load() (any, error) {
	f, err := os.Open(d.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", d.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	if d.Comma != 0 {
		r.Comma = d.Comma
	}
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", d.path, err)
	}
	return rows, nil
}

func (d *CSVDataset) Save(value any) error {
	rows, ok := value.([][]string)
	if !ok {
		return fmt.Errorf("csv dataset expects [][]string, got %T", value)
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if d.Comma != 0 {
		w.Comma = d.Comma
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("encode %s: %w", d.path, err)
	}
	return d.write(buf.Bytes())
}

func (d *CSVDataset) Describe() map[string]any { return d.describe("csv") }
