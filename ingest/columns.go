package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mozillazg/go-unidecode"
	"github.com/pivolan/equipment_analyzer/domain/models"
	"github.com/pivolan/equipment_analyzer/engine"
)

const ColumnEquipmentType = "EquipmentType"

var RequiredColumns = []string{ColumnEquipmentType, engine.FieldFlowrate, engine.FieldPressure, engine.FieldTemperature}

var columnAliases = map[string]string{
	"type":           ColumnEquipmentType,
	"equipment type": ColumnEquipmentType,
	"equipmenttype":  ColumnEquipmentType,
	"equipment_type": ColumnEquipmentType,
	"flowrate":       engine.FieldFlowrate,
	"flow rate":      engine.FieldFlowrate,
	"flow_rate":      engine.FieldFlowrate,
	"pressure":       engine.FieldPressure,
	"temperature":    engine.FieldTemperature,
	"temp":           engine.FieldTemperature,
}

// CanonicalColumn maps a header alias to its canonical name, ignoring case,
// surrounding spaces and accents.
func CanonicalColumn(name string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(unidecode.Unidecode(name)))
	canonical, ok := columnAliases[key]
	return canonical, ok
}

func canonicalOrSelf(name string) string {
	if c, ok := CanonicalColumn(name); ok {
		return c
	}
	return name
}

// CanonicalHeaders renames known aliases and keeps unknown headers.
func CanonicalHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = canonicalOrSelf(h)
	}
	return out
}

// Canonicalize returns copies of the records with aliased keys renamed.
func Canonicalize(records []models.Record) []models.Record {
	out := make([]models.Record, len(records))
	for i, r := range records {
		out[i] = r.Rename(canonicalOrSelf)
	}
	return out
}

func MissingColumns(headers []string) []string {
	present := map[string]bool{}
	for _, h := range CanonicalHeaders(headers) {
		present[h] = true
	}
	var missing []string
	for _, c := range RequiredColumns {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	return missing
}

// Analyze builds the stored summary of an upload. Validation problems are
// reported in Summary.Error rather than as an error value.
func Analyze(records []models.Record, headers []string) models.Summary {
	if missing := MissingColumns(headers); len(missing) > 0 {
		quoted := make([]string, len(headers))
		for i, h := range headers {
			quoted[i] = fmt.Sprintf("'%s'", h)
		}
		return models.Summary{
			Error: fmt.Sprintf("Missing columns: %s. Found: [%s]", strings.Join(missing, ", "), strings.Join(quoted, ", ")),
		}
	}
	if len(records) == 0 {
		return models.Summary{Error: "Dataset is empty"}
	}

	canonical := Canonicalize(records)
	summary := engine.Summarize(canonical)
	summary.EquipmentTypeDistribution = map[string]int{}
	for _, r := range canonical {
		v, ok := r.Get(ColumnEquipmentType)
		if !ok || v == nil {
			continue
		}
		key := fmt.Sprint(v)
		if f, isFloat := v.(float64); isFloat {
			key = strconv.FormatFloat(f, 'f', -1, 64)
		}
		summary.EquipmentTypeDistribution[key]++
	}
	return summary
}
