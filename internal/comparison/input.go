package comparison

import (
	"fmt"
	"io"
	"strings"

	"github.com/p-n-ai/competency-compass/internal/assessment"
	"github.com/p-n-ai/competency-compass/internal/platform/csvutil"
)

// SchemaError reports an uploaded file that lacks a required column.
type SchemaError struct {
	File    string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s must have columns %q and %q (missing %s)",
		e.File, assessment.HeaderTopic, assessment.HeaderLevel, strings.Join(e.Missing, ", "))
}

// Input is one uploaded selection table.
type Input struct {
	Name string
	rows []inputRow
}

type inputRow struct {
	topic string
	label string
}

// Len returns the number of data rows.
func (in Input) Len() int {
	return len(in.rows)
}

// ReadInput parses an uploaded selection CSV. The file must have the
// Topic and Selected Bloom Level columns; other columns are ignored and
// level labels are kept verbatim.
func ReadInput(name string, r io.Reader) (Input, error) {
	records, err := csvutil.ReadAll(r)
	if err != nil {
		return Input{}, fmt.Errorf("%s: %w", name, err)
	}

	topicCol, levelCol := -1, -1
	if len(records) > 0 {
		for i, h := range records[0] {
			switch strings.TrimSpace(h) {
			case assessment.HeaderTopic:
				if topicCol < 0 {
					topicCol = i
				}
			case assessment.HeaderLevel:
				if levelCol < 0 {
					levelCol = i
				}
			}
		}
	}

	var missing []string
	if topicCol < 0 {
		missing = append(missing, assessment.HeaderTopic)
	}
	if levelCol < 0 {
		missing = append(missing, assessment.HeaderLevel)
	}
	if len(missing) > 0 {
		return Input{}, &SchemaError{File: name, Missing: missing}
	}

	in := Input{Name: name, rows: make([]inputRow, 0, len(records)-1)}
	for _, rec := range records[1:] {
		topic := strings.TrimSpace(csvutil.Cell(rec, topicCol))
		if topic == "" {
			continue
		}
		in.rows = append(in.rows, inputRow{topic: topic, label: csvutil.Cell(rec, levelCol)})
	}
	return in, nil
}
