package export

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/iwvelando/loan-schedule/pkg/report"
)

// NewChart builds the stacked principal/interest bar chart for series.
func NewChart(series report.ChartSeries) *charts.Bar {
	title := "Principal vs Interest"
	if series.Yearly {
		title += " (per year)"
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Loan Amortization"}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithToolboxOpts(opts.Toolbox{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(series.Labels).
		AddSeries("Principal Paid", barData(series.Principal)).
		AddSeries("Interest Paid", barData(series.Interest)).
		SetSeriesOptions(charts.WithBarChartOpts(opts.BarChart{Stack: "total"}))
	return bar
}

// RenderChart writes the chart for series as a standalone HTML page.
func RenderChart(w io.Writer, series report.ChartSeries) error {
	if len(series.Labels) == 0 {
		return report.ErrEmptySchedule
	}
	return NewChart(series).Render(w)
}

func barData(values []float64) []opts.BarData {
	data := make([]opts.BarData, len(values))
	for i, v := range values {
		data[i] = opts.BarData{Value: v}
	}
	return data
}
