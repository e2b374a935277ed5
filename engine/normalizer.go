package engine

import (
	"strconv"

	"github.com/pivolan/equipment_analyzer/domain/models"
)

const UnknownCategory = "Unknown"

// CategoryKeys are tried in this order; the first present value wins.
var CategoryKeys = []string{"Type", "Equipment Type", "equipment_type"}

// ResolveCategory returns the equipment type of a record, or UnknownCategory.
func ResolveCategory(r models.Record) string {
	for _, key := range CategoryKeys {
		if s, ok := presentString(r, key); ok {
			return s
		}
	}
	return UnknownCategory
}

// presentString reports the value of key as a string when it is neither missing, nil nor "".
func presentString(r models.Record, key string) (string, bool) {
	v, ok := r.Get(key)
	if !ok || v == nil {
		return "", false
	}
	var s string
	switch val := v.(type) {
	case string:
		s = val
	case float64:
		s = strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(val)
	default:
		if n, ok := NumericValue(val); ok {
			s = strconv.FormatFloat(n, 'f', -1, 64)
		} else {
			return "", false
		}
	}
	if s == "" {
		return "", false
	}
	return s, true
}
