// Package comparison joins two or three exported selections on topic and
// maps every chosen level to its rank for charting.
package comparison

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/p-n-ai/competency-compass/internal/assessment"
	"github.com/p-n-ai/competency-compass/internal/bloom"
	"github.com/p-n-ai/competency-compass/internal/platform/csvutil"
)

// Bounds on the number of files in one comparison.
const (
	MinFiles    = 2
	MaxFiles    = 3
	LegacyFiles = 3
)

// ExportFilename is the suggested download name of a comparison export.
const ExportFilename = "competency_comparison.csv"

var (
	// ErrCardinality is returned when a combined upload has fewer than
	// MinFiles or more than MaxFiles files.
	ErrCardinality = fmt.Errorf("please upload between %d and %d files", MinFiles, MaxFiles)
	// ErrIncomplete is returned by the per-file flow until all of its
	// file slots are filled.
	ErrIncomplete = fmt.Errorf("please upload all %d competency CSV files to generate the comparison", LegacyFiles)
)

// Mode selects how a batch is labelled.
type Mode int

const (
	// Combined labels columns by source filename.
	Combined Mode = iota
	// Legacy labels columns "File 1".."File 3" and needs exactly three files.
	Legacy
)

func (m Mode) String() string {
	switch m {
	case Combined:
		return "combined"
	case Legacy:
		return "legacy"
	default:
		return "unknown"
	}
}

// Source is one uploaded file before parsing.
type Source struct {
	Name   string
	Reader io.Reader
}

// Cell is one file's answer for a topic. Ranked is false when the label is
// not a level name; such cells are gaps in the charts.
type Cell struct {
	Label  string
	Rank   int
	Ranked bool
}

// Row is one topic present in every input.
type Row struct {
	Topic string
	Cells []Cell
}

// Unmapped flags a label that could not be ranked.
type Unmapped struct {
	Topic  string
	Column string
	Label  string
}

// Result is the joined table.
type Result struct {
	Mode     Mode
	Columns  []string
	Rows     []Row
	Unmapped []Unmapped
}

// Run validates the batch size for mode, parses every source and joins them.
// Every invalid file is reported; any invalid file aborts the batch.
func Run(mode Mode, sources []Source) (*Result, error) {
	switch mode {
	case Legacy:
		if len(sources) != LegacyFiles {
			return nil, ErrIncomplete
		}
	default:
		if len(sources) < MinFiles || len(sources) > MaxFiles {
			return nil, ErrCardinality
		}
	}

	inputs := make([]Input, 0, len(sources))
	var errs []error
	for _, s := range sources {
		in, err := ReadInput(s.Name, s.Reader)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		inputs = append(inputs, in)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	labels := LegacyLabels(len(inputs))
	if mode == Combined {
		labels = FilenameLabels(inputs)
	}

	res, err := Compare(inputs, labels)
	if err != nil {
		return nil, err
	}
	res.Mode = mode
	return res, nil
}

// LegacyLabels returns "File 1".."File n".
func LegacyLabels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("File %d", i+1)
	}
	return labels
}

// FilenameLabels labels columns by input name. A name already taken gets
// the first free " (2)", " (3)" suffix so every column stays distinct.
func FilenameLabels(inputs []Input) []string {
	labels := make([]string, len(inputs))
	used := make(map[string]bool, len(inputs))
	for i, in := range inputs {
		base := in.Name
		if base == "" || base == assessment.HeaderTopic {
			base = fmt.Sprintf("File %d", i+1)
		}
		name := base
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s (%d)", base, n)
		}
		used[name] = true
		labels[i] = name
	}
	return labels
}

// Compare inner-joins inputs on topic. Only topics present in every input
// are kept, in the order of the first input; a topic repeated within one
// input uses its first row.
func Compare(inputs []Input, labels []string) (*Result, error) {
	if len(inputs) < MinFiles || len(inputs) > MaxFiles {
		return nil, ErrCardinality
	}
	if len(labels) != len(inputs) {
		return nil, fmt.Errorf("got %d column labels for %d inputs", len(labels), len(inputs))
	}

	lookups := make([]map[string]string, len(inputs))
	for i, in := range inputs {
		m := make(map[string]string, len(in.rows))
		for _, r := range in.rows {
			if _, dup := m[r.topic]; !dup {
				m[r.topic] = r.label
			}
		}
		lookups[i] = m
	}

	res := &Result{Columns: append([]string(nil), labels...)}
	emitted := make(map[string]bool, len(inputs[0].rows))

rows:
	for _, r := range inputs[0].rows {
		if emitted[r.topic] {
			continue
		}
		row := Row{Topic: r.topic, Cells: make([]Cell, len(inputs))}
		for i, m := range lookups {
			label, ok := m[r.topic]
			if !ok {
				continue rows
			}
			row.Cells[i] = newCell(label)
		}
		emitted[r.topic] = true

		for i, c := range row.Cells {
			if !c.Ranked {
				res.Unmapped = append(res.Unmapped, Unmapped{Topic: r.topic, Column: labels[i], Label: c.Label})
			}
		}
		res.Rows = append(res.Rows, row)
	}

	if len(res.Unmapped) > 0 {
		slog.Warn("comparison has unrecognised bloom levels", "count", len(res.Unmapped))
	}
	return res, nil
}

func newCell(label string) Cell {
	rank, ok := bloom.Rank(label)
	return Cell{Label: label, Rank: rank, Ranked: ok}
}

// Header returns the export header: Topic followed by the column labels.
func (r *Result) Header() []string {
	return append([]string{assessment.HeaderTopic}, r.Columns...)
}

// WriteCSV writes the joined table with the displayed column labels and
// the uploaded level labels.
func (r *Result) WriteCSV(w io.Writer) error {
	records := make([][]string, 0, len(r.Rows)+1)
	records = append(records, r.Header())
	for _, row := range r.Rows {
		rec := make([]string, 0, len(row.Cells)+1)
		rec = append(rec, row.Topic)
		for _, c := range row.Cells {
			rec = append(rec, c.Label)
		}
		records = append(records, rec)
	}
	return csvutil.WriteAll(w, records)
}

// CSV returns the export as bytes.
func (r *Result) CSV() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WriteCSV(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadResult parses a comparison export back into a Result. Ranks and
// unmapped flags are recomputed from the labels.
func ReadResult(r io.Reader) (*Result, error) {
	records, err := csvutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 || len(records[0]) == 0 || records[0][0] != assessment.HeaderTopic {
		return nil, fmt.Errorf("comparison export must start with a %q column", assessment.HeaderTopic)
	}

	columns := records[0][1:]
	if len(columns) < MinFiles || len(columns) > MaxFiles {
		return nil, ErrCardinality
	}

	inputs := make([]Input, len(columns))
	for i, c := range columns {
		inputs[i].Name = c
	}
	for _, rec := range records[1:] {
		topic := csvutil.Cell(rec, 0)
		if topic == "" {
			continue
		}
		for i := range inputs {
			inputs[i].rows = append(inputs[i].rows, inputRow{topic: topic, label: csvutil.Cell(rec, i+1)})
		}
	}

	res, err := Compare(inputs, columns)
	if err != nil {
		return nil, err
	}
	res.Mode = Combined
	if strings.Join(columns, "\x00") == strings.Join(LegacyLabels(LegacyFiles), "\x00") {
		res.Mode = Legacy
	}
	return res, nil
}
