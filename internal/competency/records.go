package competency

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/p-n-ai/competency-compass/internal/bloom"
	"github.com/p-n-ai/competency-compass/internal/platform/csvutil"
)

// ErrNoTopicColumn is returned when no column can serve as the topic key.
var ErrNoTopicColumn = errors.New("the input file must have a first column with the competency titles")

const unnamedPrefix = "Unnamed"

// NormalizeHeader trims column names, names blank columns with an
// "Unnamed: i" placeholder, treats the first column as Topic and reports
// which columns survive. keep[i] is false for placeholder columns.
func NormalizeHeader(header []string) (names []string, keep []bool, err error) {
	if len(header) == 0 {
		return nil, nil, ErrNoTopicColumn
	}

	names = make([]string, len(header))
	keep = make([]bool, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("%s: %d", unnamedPrefix, i)
		}
		names[i] = h
	}

	if names[0] != ColumnTopic {
		names[0] = ColumnTopic
	}
	for i, n := range names {
		keep[i] = i == 0 || !strings.HasPrefix(n, unnamedPrefix)
	}

	return names, keep, nil
}

// FromRecords builds a table from raw rows whose first row is the header.
func FromRecords(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, ErrNoTopicColumn
	}

	names, keep, err := NormalizeHeader(records[0])
	if err != nil {
		return nil, err
	}

	col := make(map[string]int, len(names))
	for i, n := range names {
		if !keep[i] {
			continue
		}
		if _, seen := col[n]; !seen {
			col[n] = i
		}
	}
	if _, ok := col[ColumnTopic]; !ok {
		return nil, ErrNoTopicColumn
	}

	get := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok {
			return ""
		}
		return strings.TrimSpace(csvutil.Cell(rec, i))
	}

	defs := make([]Definition, 0, len(records)-1)
	for n, rec := range records[1:] {
		d := Definition{
			Topic:            get(rec, ColumnTopic),
			ShortDescription: get(rec, ColumnShortDescription),
			Description:      get(rec, ColumnDescription),
		}
		if d.Topic == "" {
			slog.Warn("skipping reference row without topic", "row", n+2)
			continue
		}
		for _, l := range bloom.Levels() {
			d.Levels[l] = get(rec, l.String())
		}
		defs = append(defs, d)
	}

	t := NewTable(defs)
	if t.Len() < len(defs) {
		slog.Warn("duplicate topics in reference table, keeping first", "duplicates", len(defs)-t.Len())
	}
	return t, nil
}
