package chart

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/p-n-ai/competency-compass/internal/bloom"
)

const vegaLiteSchema = "https://vega.github.io/schema/vega-lite/v5.json"

// VegaLiteRenderer emits a Vega-Lite grouped bar specification that the
// browser renders with vega-embed.
type VegaLiteRenderer struct {
	Width  int
	Height int
}

// NewVegaLiteRenderer returns a renderer with the default chart size.
func NewVegaLiteRenderer() *VegaLiteRenderer {
	return &VegaLiteRenderer{Width: 1000, Height: 600}
}

func (r *VegaLiteRenderer) Name() string        { return BackendVegaLite }
func (r *VegaLiteRenderer) ContentType() string { return "application/json" }

// Spec builds the Vega-Lite document for ds. Unranked cells carry a null
// index and produce no bar.
func (r *VegaLiteRenderer) Spec(ds Dataset) map[string]any {
	values := make([]map[string]any, 0, len(ds.Topics)*len(ds.Series))
	for _, p := range ds.Points() {
		var index any
		if p.Ranked {
			index = p.Rank
		}
		values = append(values, map[string]any{
			"Topic":       p.Topic,
			"File":        p.Series,
			"Bloom Level": p.Label,
			"Bloom Index": index,
		})
	}

	ticks := make([]int, 0, bloom.Count)
	names := make([]string, 0, bloom.Count)
	for _, l := range bloom.Levels() {
		ticks = append(ticks, l.Rank())
		names = append(names, fmt.Sprintf("%q: %q", fmt.Sprint(l.Rank()), l.String()))
	}

	return map[string]any{
		"$schema": vegaLiteSchema,
		"width":   r.Width,
		"height":  r.Height,
		"data":    map[string]any{"values": values},
		"mark":    "bar",
		"encoding": map[string]any{
			"x": map[string]any{
				"field": "Topic",
				"type":  "nominal",
				"sort":  nil,
				"axis":  map[string]any{"labelAngle": 90, "labelLimit": 500},
			},
			"y": map[string]any{
				"field": "Bloom Index",
				"type":  "quantitative",
				"title": "Bloom's Level",
				"scale": map[string]any{"domain": []float64{-0.5, float64(maxRank) + 0.5}},
				"axis": map[string]any{
					"values":    ticks,
					"labelExpr": "{" + strings.Join(names, ", ") + "}[datum.label]",
				},
			},
			"y2": map[string]any{"datum": -0.5},
			"color": map[string]any{
				"field": "File",
				"type":  "nominal",
				"sort":  ds.Series,
				"scale": map[string]any{"range": Palette},
			},
			"xOffset": map[string]any{"field": "File", "type": "nominal", "sort": ds.Series},
			"tooltip": []map[string]any{
				{"field": "Topic", "type": "nominal"},
				{"field": "File", "type": "nominal"},
				{"field": "Bloom Level", "type": "nominal"},
			},
		},
		"config": map[string]any{
			"axis": map[string]any{"labelFontSize": 12},
			"view": map[string]any{"stroke": nil},
		},
	}
}

func (r *VegaLiteRenderer) Render(w io.Writer, ds Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(r.Spec(ds)); err != nil {
		return fmt.Errorf("encoding vega-lite spec: %w", err)
	}
	return nil
}
