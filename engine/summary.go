package engine

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/pivolan/equipment_analyzer/domain/models"
)

const (
	FieldFlowrate    = "Flowrate"
	FieldPressure    = "Pressure"
	FieldTemperature = "Temperature"
)

// TrackedFields are the numeric parameters averaged in a Summary.
var TrackedFields = []string{FieldFlowrate, FieldPressure, FieldTemperature}

// Summarize counts every record and averages each tracked field over the records
// holding a numeric value for it. A field without eligible values averages to 0.
func Summarize(records []models.Record) models.Summary {
	return models.Summary{
		TotalCount:     len(records),
		AvgFlowrate:    Mean(records, FieldFlowrate),
		AvgPressure:    Mean(records, FieldPressure),
		AvgTemperature: Mean(records, FieldTemperature),
	}
}

// Mean of field over eligible records, 0 when there are none.
func Mean(records []models.Record, field string) float64 {
	return Mean64(NumericValues(records, field))
}

func NumericValues(records []models.Record, field string) []float64 {
	values := make([]float64, 0, len(records))
	for _, r := range records {
		v, ok := r.Get(field)
		if !ok {
			continue
		}
		if n, ok := NumericValue(v); ok {
			values = append(values, n)
		}
	}
	return values
}

// NumericValue converts a scalar to a finite float64.
func NumericValue(v interface{}) (float64, bool) {
	var n float64
	switch val := v.(type) {
	case float64:
		n = val
	case float32:
		n = float64(val)
	case int:
		n = float64(val)
	case int64:
		n = float64(val)
	case int32:
		n = float64(val)
	case uint64:
		n = float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
