package assessment

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/p-n-ai/competency-compass/internal/bloom"
	"github.com/p-n-ai/competency-compass/internal/platform/csvutil"
)

// CSV header of an exported selection.
const (
	HeaderTopic = "Topic"
	HeaderLevel = "Selected Bloom Level"
)

// ExportFilename is the suggested download name of an exported selection.
const ExportFilename = "selected_bloom_levels.csv"

// Entry is one answered topic.
type Entry struct {
	Topic string
	Level bloom.Level
}

// Selection is the immutable set of answers of one form submission, in
// prompt order. Unanswered topics are absent.
type Selection struct {
	entries []Entry
	index   map[string]int
}

// FromEntries builds a selection from ordered entries. A repeated topic
// keeps its first level.
func FromEntries(entries []Entry) Selection {
	s := Selection{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		if _, dup := s.index[e.Topic]; dup {
			continue
		}
		s.index[e.Topic] = len(s.entries)
		s.entries = append(s.entries, e)
	}
	return s
}

// NewSelection collects the answers for prompts. answers maps topic to the
// submitted value; missing or empty values leave the topic unanswered and
// unknown values are ignored.
func NewSelection(prompts []Prompt, answers map[string]string) Selection {
	entries := make([]Entry, 0, len(answers))
	for _, p := range prompts {
		l, ok, err := ParseAnswer(answers[p.Topic])
		if err != nil {
			slog.Warn("ignoring unknown level in answer", "topic", p.Topic, "error", err)
			continue
		}
		if !ok {
			continue
		}
		entries = append(entries, Entry{Topic: p.Topic, Level: l})
	}
	return FromEntries(entries)
}

// Len returns the number of answered topics.
func (s Selection) Len() int {
	return len(s.entries)
}

// Entries returns the answers in order.
func (s Selection) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

// Level returns the chosen level for topic.
func (s Selection) Level(topic string) (bloom.Level, bool) {
	i, ok := s.index[topic]
	if !ok {
		return 0, false
	}
	return s.entries[i].Level, true
}

// WriteCSV writes the selection as "Topic,Selected Bloom Level" rows.
func (s Selection) WriteCSV(w io.Writer) error {
	records := make([][]string, 0, len(s.entries)+1)
	records = append(records, []string{HeaderTopic, HeaderLevel})
	for _, e := range s.entries {
		records = append(records, []string{e.Topic, e.Level.String()})
	}
	return csvutil.WriteAll(w, records)
}

// CSV returns the exported selection.
func (s Selection) CSV() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.WriteCSV(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadSelection parses an exported selection. Every level must be one of
// the seven level names.
func ReadSelection(r io.Reader) (Selection, error) {
	records, err := csvutil.ReadAll(r)
	if err != nil {
		return Selection{}, err
	}
	if len(records) == 0 {
		return Selection{}, fmt.Errorf("missing header %q", HeaderTopic+","+HeaderLevel)
	}

	topicCol, levelCol := -1, -1
	for i, h := range records[0] {
		switch strings.TrimSpace(h) {
		case HeaderTopic:
			topicCol = i
		case HeaderLevel:
			levelCol = i
		}
	}
	if topicCol < 0 || levelCol < 0 {
		return Selection{}, fmt.Errorf("missing header %q", HeaderTopic+","+HeaderLevel)
	}

	entries := make([]Entry, 0, len(records)-1)
	for n, rec := range records[1:] {
		topic := strings.TrimSpace(csvutil.Cell(rec, topicCol))
		if topic == "" {
			continue
		}
		l, err := bloom.ParseLevel(csvutil.Cell(rec, levelCol))
		if err != nil {
			return Selection{}, fmt.Errorf("line %d: %w", n+2, err)
		}
		entries = append(entries, Entry{Topic: topic, Level: l})
	}
	return FromEntries(entries), nil
}
