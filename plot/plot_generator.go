package plot

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/pivolan/equipment_analyzer/domain/models"
	"github.com/pivolan/equipment_analyzer/engine"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var ErrNoData = errors.New("nothing to plot")

const (
	barWidth    = 60
	unitHeight  = 40
	chartHeight = 480
)

// DistributionPNG draws the equipment type distribution as a bar chart,
// largest category first.
func DistributionPNG(summary models.Summary) ([]byte, error) {
	entries := summary.Distribution()
	if len(entries) == 0 {
		return nil, ErrNoData
	}

	bars := make([]chart.Value, len(entries))
	counts := make([]float64, len(entries))
	for i, e := range entries {
		counts[i] = float64(e.Count)
		bars[i] = chart.Value{
			Value: counts[i],
			Label: e.Category,
			Style: chart.Style{
				FillColor:   Palette[i%len(Palette)],
				StrokeColor: Palette[i%len(Palette)],
				StrokeWidth: 1,
			},
		}
	}

	ticks, maxY := countTicks(findMaxValue(counts))
	paddingX := customizePaddingXBottom(bars)
	bar := chart.BarChart{
		Title: "Equipment Type Distribution",
		Background: chart.Style{
			StrokeColor: chart.ColorBlack,
			Padding: chart.Box{
				Bottom: paddingX,
				Top:    50,
			},
		},
		Height:   chartHeight + paddingX,
		Width:    len(bars)*(barWidth+40) + 150,
		BarWidth: barWidth,
		Bars:     bars,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxY},
			Ticks: ticks,
			Style: chart.Style{
				StrokeWidth: 2,
				StrokeColor: chart.ColorBlack,
				FontSize:    12,
			},
			GridMajorStyle: chart.Style{
				StrokeColor:     chart.ColorBlack,
				StrokeWidth:     1,
				StrokeDashArray: []float64{5.0, 5.0},
			},
		},
		XAxis: chart.Style{
			StrokeWidth:         2,
			StrokeColor:         chart.ColorBlack,
			TextRotationDegrees: 45,
			FontSize:            12,
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := bar.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("error rendering chart: %v", err)
	}
	return buffer.Bytes(), nil
}

// LayersPNG rasterises the stacked layer chart. Padding cells are left out
// so each column only stacks its real units.
func LayersPNG(v *engine.View) ([]byte, error) {
	if v == nil || v.Empty() {
		return nil, ErrNoData
	}

	stacks := make([]chart.StackedBar, 0, len(v.Labels))
	for _, c := range v.Labels {
		stack := chart.StackedBar{Name: c, Width: barWidth}
		for _, layer := range v.Layers {
			if layer.CategoryValues[c] == 0 {
				continue
			}
			color := LayerColor(v.Hues[c], layer.LayerIndex)
			stack.Values = append(stack.Values, chart.Value{
				Value: float64(layer.CategoryValues[c]),
				Style: chart.Style{
					FillColor:   color,
					StrokeColor: drawing.ColorWhite,
					StrokeWidth: 1,
				},
			})
		}
		stacks = append(stacks, stack)
	}

	height := len(v.Layers)*unitHeight + 150
	if height < chartHeight {
		height = chartHeight
	}
	sbc := chart.StackedBarChart{
		Title: "Equipment Detail Count (Stacked)",
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Bottom: 40},
		},
		Width:      len(stacks)*(barWidth+40) + 150,
		Height:     height,
		BarSpacing: 40,
		Bars:       stacks,
		XAxis: chart.Style{
			StrokeWidth: 2,
			StrokeColor: chart.ColorBlack,
			FontSize:    12,
		},
		YAxis: chart.Style{
			StrokeWidth: 2,
			StrokeColor: chart.ColorBlack,
			FontSize:    12,
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := sbc.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("error rendering chart: %v", err)
	}
	return buffer.Bytes(), nil
}

// countTicks rounds maxValue up to a whole grid step and returns a tick per step.
// Counts below 10 get a tick per unit.
func countTicks(maxValue float64) ([]chart.Tick, float64) {
	step := calculateGridStep(maxValue)
	if maxValue < 10 {
		step = 1
	}
	if maxValue <= 0 {
		return []chart.Tick{{Value: 0, Label: "0"}, {Value: 1, Label: "1"}}, 1
	}
	maxY := math.Ceil(maxValue/step) * step
	ticks := []chart.Tick{}
	for i := 0; float64(i)*step <= maxY+step/2; i++ {
		v := float64(i) * step
		ticks = append(ticks, chart.Tick{Value: v, Label: fmt.Sprintf("%g", v)})
	}
	return ticks, maxY
}

func calculateGridStep(maxValue float64) float64 {
	if maxValue <= 0 {
		return 0
	}

	magnitude := math.Pow(10, math.Floor(math.Log10(maxValue)))
	normalized := maxValue / magnitude

	var step float64
	switch {
	case normalized <= 1:
		step = 0.2
	case normalized <= 2:
		step = 0.5
	case normalized <= 5:
		step = 1.0
	default:
		step = 2.0
	}

	finalStep := step * magnitude
	if finalStep >= 1000 {
		return math.Round(finalStep/100) * 100
	}
	if finalStep >= 100 {
		return math.Round(finalStep/10) * 10
	}
	return finalStep
}

func findMaxValue(y []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	max := y[0]
	for _, v := range y {
		if v > max {
			max = v
		}
	}
	return max
}

func customizePaddingXBottom(values []chart.Value) int {
	count := 0
	for _, v := range values {
		if len(v.Label) > count {
			count = len(v.Label)
		}
	}
	return count * 8
}
