package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/pivolan/equipment_analyzer/domain/models"
	"github.com/pivolan/equipment_analyzer/engine"
	"github.com/pivolan/equipment_analyzer/ingest"
)

const paddingCell = "-"

// GenerateSummaryTable renders the four metric cards.
func GenerateSummaryTable(s models.Summary) string {
	t := newTable()
	t.AppendHeader(table.Row{"Metric", "Value"})
	if s.Failed() {
		t.AppendRow(table.Row{"Error", s.Error})
	} else {
		t.AppendRows([]table.Row{
			{"Total Equipment", s.TotalCount},
			{"Avg Flowrate", fmt.Sprintf("%.2f L/min", s.AvgFlowrate)},
			{"Avg Pressure", fmt.Sprintf("%.2f bar", s.AvgPressure)},
			{"Avg Temperature", fmt.Sprintf("%.2f °C", s.AvgTemperature)},
		})
	}
	return t.Render()
}

// GenerateParameterStatsTable describes the distribution of every tracked parameter.
// Parameters without numeric values are left out.
func GenerateParameterStatsTable(records []models.Record) string {
	records = ingest.Canonicalize(records)
	t := newTable()
	t.AppendHeader(table.Row{"Parameter", "Count", "Avg", "Median", "Min", "Max", "P10", "Q1", "Q3", "P90", "IQR", "Outliers"})
	rows := 0
	for _, field := range engine.TrackedFields {
		stats := engine.ParameterStats(records, field)
		if stats == nil {
			continue
		}
		t.AppendRow(table.Row{
			field, stats.Count, stats.Average, stats.Median, stats.Min, stats.Max,
			stats.P10, stats.Q1, stats.Q3, stats.P90, stats.IQR, len(stats.Outliers),
		})
		rows++
	}
	if rows == 0 {
		return ""
	}
	return t.Render()
}

// GenerateLayersTable prints one row per layer and one column per category.
// Cells show the unit's tooltip label, padding cells a dash.
func GenerateLayersTable(v *engine.View) string {
	if v == nil || v.Empty() {
		return ""
	}
	t := newTable()
	header := table.Row{"Layer"}
	for _, c := range v.Labels {
		header = append(header, c)
	}
	t.AppendHeader(header)

	for _, layer := range v.Layers {
		row := table.Row{layer.Label}
		for _, c := range v.Labels {
			if layer.CategoryValues[c] == 1 {
				row = append(row, v.TooltipLabel(c, layer.LayerIndex))
			} else {
				row = append(row, paddingCell)
			}
		}
		t.AppendRow(row)
	}

	footer := table.Row{"Total"}
	for _, c := range v.Labels {
		n := 0
		for _, layer := range v.Layers {
			n += layer.CategoryValues[c]
		}
		footer = append(footer, n)
	}
	t.AppendFooter(footer)
	return t.Render()
}

// GenerateDataTable prints records with the columns of the first row.
func GenerateDataTable(records []models.Record) string {
	if len(records) == 0 {
		return ""
	}
	keys := records[0].Keys()
	t := newTable()
	header := table.Row{}
	for _, k := range keys {
		header = append(header, k)
	}
	t.AppendHeader(header)
	for _, r := range records {
		row := make(table.Row, len(keys))
		for i, k := range keys {
			v, _ := r.Get(k)
			row[i] = formatCell(v)
		}
		t.AppendRow(row)
	}
	return t.Render()
}

// GenerateDatasetText joins every table for one dataset.
func GenerateDatasetText(d *models.UploadedDataset, v *engine.View, records []models.Record) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "%s (%s)\n", d.DatasetName, d.UploadTimestamp.Format("2006-01-02 15:04"))
	sb.WriteString(GenerateSummaryTable(v.Summary))
	sb.WriteString("\n")
	if params := GenerateParameterStatsTable(records); params != "" {
		sb.WriteString("\n")
		sb.WriteString(params)
		sb.WriteString("\n")
	}
	if layers := GenerateLayersTable(v); layers != "" {
		sb.WriteString("\n")
		sb.WriteString(layers)
		sb.WriteString("\n")
	}
	if data := GenerateDataTable(records); data != "" {
		sb.WriteString("\n")
		sb.WriteString(data)
		sb.WriteString("\n")
	}
	return sb.String()
}

// newTable keeps header and footer text as given instead of upper-casing it.
func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleDefault)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	return t
}

func formatCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
