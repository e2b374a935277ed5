package plot

import (
	"math"

	"github.com/pivolan/equipment_analyzer/engine"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Palette for the distribution chart, cycled by bar position.
var Palette = []drawing.Color{
	drawing.ColorFromHex("2D1B69"),
	drawing.ColorFromHex("673AB7"),
	drawing.ColorFromHex("E91E63"),
	drawing.ColorFromHex("03A9F4"),
	drawing.ColorFromHex("00BCD4"),
	drawing.ColorFromHex("009688"),
	drawing.ColorFromHex("4CAF50"),
	drawing.ColorFromHex("FFC107"),
	drawing.ColorFromHex("FF5722"),
}

// HSLColor converts hue in degrees and saturation/lightness in percent to RGB.
// Lightness above 100 rasterises as white, the same as a browser does with the CSS value.
func HSLColor(hue, saturation, lightness float64) drawing.Color {
	s := clamp01(saturation / 100)
	l := clamp01(lightness / 100)
	h := math.Mod(hue, 360)
	if h < 0 {
		h += 360
	}

	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return drawing.Color{R: channel(r + m), G: channel(g + m), B: channel(b + m), A: 255}
}

// LayerColor is the raster form of engine.LayerColor.
func LayerColor(hue float64, layer int) drawing.Color {
	return HSLColor(hue, engine.Saturation, engine.LayerLightness(layer))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func channel(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}
