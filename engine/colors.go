package engine

import (
	"fmt"
	"math"
	"strconv"
)

const (
	GoldenAngle     = 137.5
	Saturation      = 70.0
	BaseLightness   = 40.0
	LightnessStep   = 10.0
	LegendLightness = 50.0
)

// HueForRank is the hue of the k-th distinct category.
func HueForRank(k int) float64 {
	return math.Mod(float64(k)*GoldenAngle, 360)
}

// AssignHues maps each category to the hue of its rank in the given order.
// Category names never influence the result.
func AssignHues(categories []string) map[string]float64 {
	hues := make(map[string]float64, len(categories))
	for k, c := range categories {
		hues[c] = HueForRank(k)
	}
	return hues
}

// LayerLightness is not clamped: layers from index 6 on reach 100% and beyond.
func LayerLightness(layer int) float64 {
	return BaseLightness + LightnessStep*float64(layer)
}

// HSL formats a CSS colour with the fixed chart saturation.
func HSL(hue, lightness float64) string {
	return fmt.Sprintf("hsl(%s, %s%%, %s%%)", formatNumber(hue), formatNumber(Saturation), formatNumber(lightness))
}

func LayerColor(hue float64, layer int) string {
	return HSL(hue, LayerLightness(layer))
}

func LegendColor(hue float64) string {
	return HSL(hue, LegendLightness)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
