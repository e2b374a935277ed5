package plot

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pivolan/equipment_analyzer/domain/models"
	"github.com/pivolan/equipment_analyzer/engine"
)

// StackName groups every layer series into one stack per category.
const StackName = "units"

var trendColors = map[string]string{
	engine.FieldFlowrate:    "rgba(75, 192, 192, 1)",
	engine.FieldPressure:    "rgba(255, 99, 132, 1)",
	engine.FieldTemperature: "rgba(255, 206, 86, 1)",
}

// StackedBar emits one series per layer. Every cell carries its own colour and
// the tooltip label of the record it stands for.
func StackedBar(v *engine.View) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Equipment Detail Count (Stacked)"}),
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "420px"}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "item"}),
	)
	bar.SetXAxis(v.Labels)
	for _, layer := range v.Layers {
		data := make([]opts.BarData, len(v.Labels))
		for i, c := range v.Labels {
			data[i] = opts.BarData{
				Name:  v.TooltipLabel(c, layer.LayerIndex),
				Value: layer.CategoryValues[c],
				ItemStyle: &opts.ItemStyle{
					Color:       layer.CategoryColors[c],
					BorderColor: "#ffffff",
				},
			}
		}
		bar.AddSeries(layer.Label, data, charts.WithBarChartOpts(opts.BarChart{Stack: StackName}))
	}
	return bar
}

// TrendLines draws one line per tracked parameter, indexed by row number.
// Rows without a numeric value leave a gap.
func TrendLines(records []models.Record) []*charts.Line {
	index := make([]int, len(records))
	for i := range records {
		index[i] = i + 1
	}

	lines := make([]*charts.Line, 0, len(engine.TrackedFields))
	for _, field := range engine.TrackedFields {
		points := engine.Trend(records, field)
		data := make([]opts.LineData, len(points))
		for i, p := range points {
			if p.Present {
				data[i] = opts.LineData{Value: p.Value}
			} else {
				data[i] = opts.LineData{Value: "-"}
			}
		}

		line := charts.NewLine()
		line.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{Title: field + " Trend"}),
			charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "300px"}),
		)
		line.SetXAxis(index).AddSeries(field, data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: trendColors[field]}),
		)
		lines = append(lines, line)
	}
	return lines
}

// RenderDashboard writes an HTML page with the stacked chart followed by the trend lines.
// An empty view contributes no bar chart.
func RenderDashboard(w io.Writer, title string, v *engine.View, records []models.Record) error {
	page := components.NewPage()
	page.PageTitle = title
	if v != nil && !v.Empty() {
		page.AddCharts(StackedBar(v))
	}
	if len(records) > 0 {
		for _, line := range TrendLines(records) {
			page.AddCharts(line)
		}
	}
	return page.Render(w)
}
