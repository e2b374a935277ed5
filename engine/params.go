package engine

import (
	"math"
	"sort"

	"github.com/pivolan/equipment_analyzer/domain/models"
)

// TrendPoint is one record's value of a parameter; Index is 1-based.
type TrendPoint struct {
	Index   int     `json:"index"`
	Value   float64 `json:"value"`
	Present bool    `json:"present"`
}

// Trend returns one point per record so that gaps line up with the raw table.
func Trend(records []models.Record, field string) []TrendPoint {
	points := make([]TrendPoint, len(records))
	for i, r := range records {
		points[i].Index = i + 1
		if v, ok := r.Get(field); ok {
			points[i].Value, points[i].Present = NumericValue(v)
		}
	}
	return points
}

// NumberStats describes the spread of one parameter. Every value is rounded to
// two decimals; Outliers lie outside Q1-1.5*IQR .. Q3+1.5*IQR.
type NumberStats struct {
	Count    int
	Average  float64
	Median   float64
	Min      float64
	Max      float64
	P10      float64
	Q1       float64
	Q3       float64
	P90      float64
	IQR      float64
	Outliers []float64
}

// ParameterStats describes the eligible values of field, nil when there are none.
func ParameterStats(records []models.Record, field string) *NumberStats {
	return AnalyzeNumbers(NumericValues(records, field))
}

func AnalyzeNumbers(numbers []float64) *NumberStats {
	if len(numbers) == 0 {
		return nil
	}
	sorted := append([]float64(nil), numbers...)
	sort.Float64s(sorted)

	stats := &NumberStats{
		Count:   len(sorted),
		Average: round2(Mean64(sorted)),
		Median:  round2(percentile(sorted, 0.5)),
		Min:     round2(sorted[0]),
		Max:     round2(sorted[len(sorted)-1]),
		P10:     round2(percentile(sorted, 0.1)),
		Q1:      round2(percentile(sorted, 0.25)),
		Q3:      round2(percentile(sorted, 0.75)),
		P90:     round2(percentile(sorted, 0.9)),
	}
	stats.IQR = round2(stats.Q3 - stats.Q1)

	low, high := stats.Q1-1.5*stats.IQR, stats.Q3+1.5*stats.IQR
	stats.Outliers = []float64{}
	for _, v := range numbers {
		if v < low || v > high {
			stats.Outliers = append(stats.Outliers, v)
		}
	}
	return stats
}

// Mean64 is the arithmetic mean, 0 for no values.
func Mean64(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// percentile interpolates linearly between the two closest ranks of sorted.
func percentile(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	return sorted[lo] + (pos-float64(lo))*(sorted[hi]-sorted[lo])
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
