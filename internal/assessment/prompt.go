// Package assessment turns the reference table into one single-choice prompt
// per topic and captures the chosen levels as an immutable Selection.
package assessment

import (
	"fmt"
	"strings"

	"github.com/p-n-ai/competency-compass/internal/bloom"
	"github.com/p-n-ai/competency-compass/internal/competency"
)

const noDescription = "(no description)"

// Option is one choice of a prompt.
type Option struct {
	Level bloom.Level
	Label string
}

// Value is the form value submitted for this option.
func (o Option) Value() string {
	return o.Level.String()
}

// Prompt is the single-choice question for one topic.
type Prompt struct {
	Index            int
	Topic            string
	ShortDescription string
	Description      string
	Options          []Option
}

// Field is the form field name carrying the answer to this prompt.
func (p Prompt) Field() string {
	return fmt.Sprintf("level-%d", p.Index)
}

// OptionLabel formats the text shown for a level of a topic.
func OptionLabel(l bloom.Level, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		text = noDescription
	}
	return l.String() + ": " + text
}

// BuildPrompts returns one prompt per definition, each offering all levels
// in ascending order.
func BuildPrompts(defs []competency.Definition) []Prompt {
	prompts := make([]Prompt, 0, len(defs))
	for i, d := range defs {
		p := Prompt{
			Index:            i,
			Topic:            d.Topic,
			ShortDescription: d.ShortDescription,
			Description:      d.Description,
			Options:          make([]Option, 0, bloom.Count),
		}
		for _, l := range bloom.Levels() {
			p.Options = append(p.Options, Option{Level: l, Label: OptionLabel(l, d.LevelText(l))})
		}
		prompts = append(prompts, p)
	}
	return prompts
}

// ParseAnswer extracts the level from a submitted value. Both the bare level
// name and a full option label ("Apply: ...") are accepted. An empty value
// means no selection.
func ParseAnswer(value string) (bloom.Level, bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false, nil
	}
	name, _, _ := strings.Cut(value, ":")
	l, err := bloom.ParseLevel(strings.TrimSpace(name))
	if err != nil {
		return 0, false, err
	}
	return l, true, nil
}
