package chart

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const barTitle = "Bloom's level comparison (grouped bar chart)"

// BarRenderer draws a grouped bar chart: topics along x, rank up y, one
// bar per file in each group. Hovering a bar shows the uploaded label.
type BarRenderer struct {
	Width      string
	Height     string
	AssetsHost string
}

// NewBarRenderer returns a bar renderer with the default canvas size.
func NewBarRenderer() *BarRenderer {
	return &BarRenderer{Width: "1000px", Height: "600px"}
}

func (r *BarRenderer) Name() string        { return BackendBar }
func (r *BarRenderer) ContentType() string { return htmlContentType }

// Bars are plotted one step above their rank so that Unfamiliar still
// gets a visible bar. The axis labels undo the offset.
func barValue(p Point) any {
	if !p.Ranked {
		return "-"
	}
	return p.Rank + 1
}

func (r *BarRenderer) chart(ds Dataset) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			ChartID:    "compass_bar",
			Width:      r.Width,
			Height:     r.Height,
			PageTitle:  barTitle,
			AssetsHost: r.AssetsHost,
		}),
		charts.WithTitleOpts(chartTitle(barTitle, ds)),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10", Orient: "vertical"}),
		charts.WithColorsOpts(opts.Colors(Palette)),
		charts.WithGridOpts(opts.Grid{Left: "110", Right: "180", Bottom: "160"}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			Name:      "Topic",
			AxisLabel: &opts.AxisLabel{Show: opts.Bool(true), Interval: "0", Rotate: 60},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:        "value",
			Name:        "Bloom Level",
			Min:         0,
			Max:         maxRank + 1,
			MinInterval: 1,
			AxisLabel: &opts.AxisLabel{
				Show:      opts.Bool(true),
				Formatter: opts.FuncOpts("function (v) { return " + levelNamesJS() + "[v - 1] || ''; }"),
			},
		}),
	)
	bar.SetXAxis(ds.Topics)

	for j, name := range ds.Series {
		data := make([]opts.BarData, len(ds.Topics))
		for i := range ds.Topics {
			p := ds.Cells[i][j]
			data[i] = opts.BarData{
				Name:    p.Topic,
				Value:   barValue(p),
				Tooltip: &opts.Tooltip{Formatter: types.FuncStr(pointTooltip(p))},
			}
		}
		bar.AddSeries(name, data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: color(j)}),
			charts.WithBarChartOpts(opts.BarChart{BarGap: "10%"}),
		)
	}
	return bar
}

// Embed returns the chart as a page fragment.
func (r *BarRenderer) Embed(ds Dataset) (Embed, error) {
	bar := r.chart(ds)
	return newEmbed(bar, func() []string {
		return append([]string(nil), bar.JSAssets.Values...)
	})
}

// Render writes a standalone HTML page.
func (r *BarRenderer) Render(w io.Writer, ds Dataset) error {
	e, err := r.Embed(ds)
	if err != nil {
		return err
	}
	return writePage(w, barTitle, e)
}
