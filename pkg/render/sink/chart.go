package sink

import (
	"bytes"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/matzehuels/stowage/pkg/scene"
)

// RenderChart renders an HTML bar chart of items per column next to the
// column capacity.
func RenderChart(s scene.Scene, r scene.Report) ([]byte, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Stowage column fill",
			Width:     "900px",
			Height:    "500px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Items per column",
			Subtitle: fmt.Sprintf("%d items in %d columns, %.2f×%.2f×%.2f m container", len(s.Items), r.Columns, s.Params.Length, s.Params.Width, s.Params.Height),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Column"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Items"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	labels := make([]string, len(r.PerColumn))
	filled := make([]opts.BarData, len(r.PerColumn))
	capacity := make([]opts.BarData, len(r.PerColumn))
	for i, n := range r.PerColumn {
		labels[i] = fmt.Sprintf("%d", i)
		filled[i] = opts.BarData{Value: n}
		capacity[i] = opts.BarData{Value: r.ColumnCapacity}
	}

	bar.SetXAxis(labels).
		AddSeries("Items", filled).
		AddSeries("Capacity", capacity)

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}
