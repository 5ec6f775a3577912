package assessment

import (
	"testing"

	"github.com/p-n-ai/competency-compass/internal/bloom"
	"github.com/p-n-ai/competency-compass/internal/competency"
)

func TestBuildPrompts_OnePerTopicSevenOptions(t *testing.T) {
	defs := []competency.Definition{
		{Topic: "Sequencing QC"},
		{Topic: "Phylogenetics"},
		{Topic: "Outbreak analysis"},
	}

	prompts := BuildPrompts(defs)
	if len(prompts) != len(defs) {
		t.Fatalf("len(prompts) = %d, want %d", len(prompts), len(defs))
	}

	for _, p := range prompts {
		if len(p.Options) != bloom.Count {
			t.Fatalf("%s: %d options, want %d", p.Topic, len(p.Options), bloom.Count)
		}
		for i, o := range p.Options {
			if o.Level != bloom.Level(i) {
				t.Errorf("%s option %d level = %v, want %v", p.Topic, i, o.Level, bloom.Level(i))
			}
		}
	}
}

func TestBuildPrompts_NoDescription(t *testing.T) {
	prompts := BuildPrompts([]competency.Definition{{Topic: "Sequencing QC"}})

	for _, o := range prompts[0].Options {
		want := o.Level.String() + ": (no description)"
		if o.Label != want {
			t.Errorf("Label = %q, want %q", o.Label, want)
		}
	}
}

func TestBuildPrompts_WithDescription(t *testing.T) {
	def := competency.Definition{Topic: "Sequencing QC"}
	def.Levels[bloom.Apply] = "Runs QC on new data"

	prompts := BuildPrompts([]competency.Definition{def})

	if got := prompts[0].Options[bloom.Apply].Label; got != "Apply: Runs QC on new data" {
		t.Errorf("Label = %q", got)
	}
	if got := prompts[0].Options[bloom.Create].Label; got != "Create: (no description)" {
		t.Errorf("Label = %q", got)
	}
}

func TestParseAnswer(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    bloom.Level
		wantOK  bool
		wantErr bool
	}{
		{"empty", "", 0, false, false},
		{"bare name", "Apply", bloom.Apply, true, false},
		{"full label", "Evaluate: Judges pipelines", bloom.Evaluate, true, false},
		{"label without description", "Create: (no description)", bloom.Create, true, false},
		{"unknown", "Expert", 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := ParseAnswer(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAnswer(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseAnswer(%q) = %v, %v; want %v, %v", tt.value, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestPrompt_Field(t *testing.T) {
	p := Prompt{Index: 4}
	if p.Field() != "level-4" {
		t.Errorf("Field() = %q, want level-4", p.Field())
	}
}
