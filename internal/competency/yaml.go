package competency

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/p-n-ai/competency-compass/internal/bloom"
)

const yamlSchema = `{
  "type": "object",
  "required": ["competencies"],
  "properties": {
    "competencies": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["topic"],
        "additionalProperties": false,
        "properties": {
          "topic": {"type": "string", "minLength": 1},
          "short_description": {"type": "string"},
          "description": {"type": "string"},
          "levels": {
            "type": "object",
            "propertyNames": {"enum": ["Unfamiliar", "Remember", "Understand", "Apply", "Analyse", "Evaluate", "Create"]},
            "additionalProperties": {"type": "string"}
          }
        }
      }
    }
  }
}`

// ErrInvalidDocument is returned when a YAML reference table does not
// match the expected document shape.
var ErrInvalidDocument = errors.New("invalid reference document")

var schemaLoader = gojsonschema.NewStringLoader(yamlSchema)

type yamlDocument struct {
	Competencies []yamlDefinition `yaml:"competencies"`
}

type yamlDefinition struct {
	Topic            string            `yaml:"topic"`
	ShortDescription string            `yaml:"short_description"`
	Description      string            `yaml:"description"`
	Levels           map[string]string `yaml:"levels"`
}

// ReadYAML parses a YAML reference table:
//
//	competencies:
//	  - topic: Sequencing QC
//	    levels:
//	      Apply: Runs the QC pipeline on new data.
func ReadYAML(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading yaml: %w", err)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	if err := validateYAML(raw); err != nil {
		return nil, err
	}

	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}

	defs := make([]Definition, 0, len(doc.Competencies))
	for _, c := range doc.Competencies {
		d := Definition{
			Topic:            strings.TrimSpace(c.Topic),
			ShortDescription: strings.TrimSpace(c.ShortDescription),
			Description:      strings.TrimSpace(c.Description),
		}
		for name, text := range c.Levels {
			l, err := bloom.ParseLevel(strings.TrimSpace(name))
			if err != nil {
				continue
			}
			d.Levels[l] = strings.TrimSpace(text)
		}
		defs = append(defs, d)
	}
	return NewTable(defs), nil
}

func validateYAML(doc any) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validating yaml: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
}
