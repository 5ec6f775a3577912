// Package csvutil wraps encoding/csv with the input handling shared by the
// reference table and the uploaded result files.
package csvutil

import (
	"encoding/csv"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// NewReader returns a CSV reader that tolerates a leading byte order mark
// (spreadsheet exports commonly add one) and ragged rows.
func NewReader(r io.Reader) *csv.Reader {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	cr := csv.NewReader(transform.NewReader(r, dec))
	cr.FieldsPerRecord = -1
	return cr
}

// ReadAll reads every record from r.
func ReadAll(r io.Reader) ([][]string, error) {
	records, err := NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	return records, nil
}

// Cell returns record[i], or "" when the row is too short.
func Cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}

// WriteAll writes the records to w and flushes.
func WriteAll(w io.Writer, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}
