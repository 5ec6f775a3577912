package competency

import "github.com/p-n-ai/competency-compass/internal/bloom"

// Column names recognised in a reference table header.
const (
	ColumnTopic            = "Topic"
	ColumnShortDescription = "Short description"
	ColumnDescription      = "Description"
)

// Definition is one competency row of the reference table.
type Definition struct {
	Topic            string
	ShortDescription string
	Description      string
	// Levels holds the guidance text per Bloom level, indexed by rank.
	// Blank cells are empty strings.
	Levels [bloom.Count]string
}

// LevelText returns the guidance text for l, or "" when there is none.
func (d Definition) LevelText(l bloom.Level) string {
	if !l.Valid() {
		return ""
	}
	return d.Levels[l]
}

// Table is the ordered, read-only reference table.
type Table struct {
	defs  []Definition
	index map[string]int
}

// NewTable builds a table from definitions in order. Blank topics are
// skipped and the first occurrence of a duplicate topic wins.
func NewTable(defs []Definition) *Table {
	t := &Table{index: make(map[string]int, len(defs))}
	for _, d := range defs {
		if d.Topic == "" {
			continue
		}
		if _, dup := t.index[d.Topic]; dup {
			continue
		}
		t.index[d.Topic] = len(t.defs)
		t.defs = append(t.defs, d)
	}
	return t
}

// Definitions returns the rows in table order.
func (t *Table) Definitions() []Definition {
	return append([]Definition(nil), t.defs...)
}

// Lookup returns the definition for topic.
func (t *Table) Lookup(topic string) (Definition, bool) {
	i, ok := t.index[topic]
	if !ok {
		return Definition{}, false
	}
	return t.defs[i], true
}

// Len returns the number of topics.
func (t *Table) Len() int {
	return len(t.defs)
}
