package chart

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const radarTitle = "Bloom's level comparison (radar chart)"

// RadarRenderer draws one closed polygon per file over one axis per topic.
// The first topic's axis points straight up.
type RadarRenderer struct {
	Width      string
	Height     string
	AssetsHost string
}

// NewRadarRenderer returns a radar renderer with the default canvas size.
func NewRadarRenderer() *RadarRenderer {
	return &RadarRenderer{Width: "900px", Height: "700px"}
}

func (r *RadarRenderer) Name() string        { return BackendRadar }
func (r *RadarRenderer) ContentType() string { return htmlContentType }

func (r *RadarRenderer) chart(ds Dataset) *charts.Radar {
	indicators := make([]*opts.Indicator, len(ds.Topics))
	for i, t := range ds.Topics {
		indicators[i] = &opts.Indicator{Name: t, Min: 0, Max: float32(maxRank)}
	}

	radar := charts.NewRadar()
	radar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			ChartID:    "compass_radar",
			Width:      r.Width,
			Height:     r.Height,
			PageTitle:  radarTitle,
			AssetsHost: r.AssetsHost,
		}),
		charts.WithTitleOpts(chartTitle(radarTitle, ds)),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:           opts.Bool(true),
			Trigger:        "item",
			ValueFormatter: opts.FuncOpts("function (v) { return " + levelNamesJS() + "[v] || '-'; }"),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
		charts.WithColorsOpts(opts.Colors(Palette)),
		charts.WithRadarComponentOpts(opts.RadarComponent{
			Indicator:   indicators,
			Shape:       "polygon",
			SplitNumber: maxRank,
			StartAngle:  90,
			SplitLine:   &opts.SplitLine{Show: opts.Bool(true)},
			SplitArea:   &opts.SplitArea{Show: opts.Bool(false)},
		}),
	)

	for j, name := range ds.Series {
		// Unranked cells break the polygon at that axis.
		values := make([]any, len(ds.Topics))
		for i := range ds.Topics {
			if p := ds.Cells[i][j]; p.Ranked {
				values[i] = p.Rank
			} else {
				values[i] = "-"
			}
		}
		radar.AddSeries(name, []opts.RadarData{{Name: name, Value: values}},
			charts.WithItemStyleOpts(opts.ItemStyle{Color: color(j)}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: color(j), Width: 2}),
			charts.WithAreaStyleOpts(opts.AreaStyle{Color: color(j), Opacity: opts.Float(0.25)}),
		)
	}
	return radar
}

// Embed returns the chart as a page fragment.
func (r *RadarRenderer) Embed(ds Dataset) (Embed, error) {
	radar := r.chart(ds)
	return newEmbed(radar, func() []string {
		return append([]string(nil), radar.JSAssets.Values...)
	})
}

// Render writes a standalone HTML page.
func (r *RadarRenderer) Render(w io.Writer, ds Dataset) error {
	e, err := r.Embed(ds)
	if err != nil {
		return err
	}
	return writePage(w, radarTitle, e)
}
