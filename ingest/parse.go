package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pivolan/equipment_analyzer/domain/models"
	"github.com/pivolan/go_utils"
)

const SEPARATOR = ','

// naValues are read as missing cells.
var naValues = []string{"", "NA", "N/A", "n/a", "NaN", "nan", "null", "NULL", "None"}

// ParseCSV reads a whole CSV stream into records; rows keep file order and
// every record carries every column.
func ParseCSV(r io.Reader) ([]models.Record, []string, error) {
	reader := csv.NewReader(r)
	reader.Comma = SEPARATOR
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	first, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []models.Record{}, []string{}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	analysis := AnalyzeHeaders(first)
	headers := analysis.Headers
	records := []models.Record{}
	if analysis.FirstRowIsData {
		records = append(records, buildRecord(headers, first))
	}

	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read line %d: %w", line, err)
		}
		if isBlankRow(row) {
			continue
		}
		records = append(records, buildRecord(headers, row))
	}
	return records, headers, nil
}

func buildRecord(headers []string, row []string) models.Record {
	pairs := make([]interface{}, 0, len(headers)*2)
	for i, h := range headers {
		var value interface{}
		if i < len(row) {
			value = ParseValue(row[i])
		}
		pairs = append(pairs, h, value)
	}
	return models.NewRecord(pairs...)
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ParseValue types a CSV cell: missing => nil, finite number => float64, else the trimmed string.
func ParseValue(cell string) interface{} {
	value := strings.TrimSpace(cell)
	if go_utils.InArray(value, naValues) {
		return nil
	}
	if v, err := strconv.ParseFloat(value, 64); err == nil && !math.IsInf(v, 0) && !math.IsNaN(v) {
		return v
	}
	return value
}
