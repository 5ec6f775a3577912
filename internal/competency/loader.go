// Package competency loads the reference table of competency topics and
// their per-level guidance text.
package competency

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/p-n-ai/competency-compass/internal/platform/csvutil"
)

// ErrUnsupportedFormat is returned for reference files that are not
// CSV, XLSX or YAML.
var ErrUnsupportedFormat = errors.New("unsupported reference table format")

// Load reads the reference table at path. The format is chosen by
// extension: .csv, .xlsx or .yaml/.yml.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening reference table: %w", err)
	}
	defer f.Close()

	var t *Table
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		t, err = ReadCSV(f)
	case ".xlsx":
		t, err = ReadXLSX(f)
	case ".yaml", ".yml":
		t, err = ReadYAML(f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("loading reference table %s: %w", path, err)
	}

	slog.Info("reference table loaded", "path", path, "topics", t.Len())
	return t, nil
}

// ReadCSV parses a CSV reference table.
func ReadCSV(r io.Reader) (*Table, error) {
	records, err := csvutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return FromRecords(records)
}

// ReadXLSX parses the first sheet of a spreadsheet reference table.
func ReadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoTopicColumn
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	return FromRecords(rows)
}
