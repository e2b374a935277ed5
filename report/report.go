package report

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"
	"github.com/pivolan/equipment_analyzer/domain/models"
	"github.com/pivolan/equipment_analyzer/plot"
)

const (
	pageWidth   = 190.0
	margin      = 10.0
	cardWidth   = 45.0
	cardGap     = (pageWidth - 4*cardWidth) / 3
	chartHeight = 110.0
	chartName   = "distribution"
)

var (
	deepPurple = [3]int{0x2D, 0x1B, 0x69}
	whiteSmoke = [3]int{0xF5, 0xF5, 0xF5}
	gray       = [3]int{0x80, 0x80, 0x80}
)

// NoDataMessage replaces the metrics when the dataset failed analysis.
const NoDataMessage = "No valid analysis data found."

// Filename is the attachment name the API uses for a dataset report.
func Filename(id string) string {
	return fmt.Sprintf("report_%s.pdf", id)
}

// Generate writes a one page PDF: header, metric cards and the distribution chart.
// chartPNG may be nil, in which case only the legend is printed.
func Generate(w io.Writer, d *models.UploadedDataset, chartPNG []byte) error {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.AddPage()

	header(pdf, d)

	section(pdf, "Key Metrics")
	summary := d.SummaryData
	if summary == nil || summary.Failed() {
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(pageWidth, 8, NoDataMessage, "", 1, "L", false, 0, "")
		return output(pdf, w)
	}
	cards(pdf, *summary)

	entries := summary.Distribution()
	if len(entries) > 0 {
		section(pdf, "Equipment Distribution")
		if len(chartPNG) > 0 {
			opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
			info := pdf.RegisterImageOptionsReader(chartName, opts, bytes.NewReader(chartPNG))
			if info != nil {
				cw, ch := fitChart(info.Width(), info.Height())
				pdf.ImageOptions(chartName, margin+(pageWidth-cw)/2, pdf.GetY(), cw, ch, true, opts, 0, "")
			}
			pdf.Ln(4)
		}
		legend(pdf, entries)
	}
	return output(pdf, w)
}

// fitChart scales the image into the chart box keeping its aspect ratio.
func fitChart(w, h float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return pageWidth, chartHeight
	}
	scale := math.Min(pageWidth/w, chartHeight/h)
	return w * scale, math.Min(h*scale, chartHeight)
}

func header(pdf *gofpdf.Fpdf, d *models.UploadedDataset) {
	pdf.SetFillColor(deepPurple[0], deepPurple[1], deepPurple[2])
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(pageWidth, 14, "Analysis Report", "", 1, "C", true, 0, "")
	pdf.SetTextColor(whiteSmoke[0], whiteSmoke[1], whiteSmoke[2])
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(pageWidth, 8, pdf.UnicodeTranslatorFromDescriptor("")(d.DatasetName), "", 1, "C", true, 0, "")
	pdf.CellFormat(pageWidth, 8, "Date: "+d.UploadTimestamp.Format("2006-01-02"), "", 1, "C", true, 0, "")
	pdf.Ln(8)
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(deepPurple[0], deepPurple[1], deepPurple[2])
	pdf.CellFormat(pageWidth, 10, title, "", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func cards(pdf *gofpdf.Fpdf, s models.Summary) {
	metrics := []struct {
		label string
		value string
	}{
		{"Total Equipment", fmt.Sprintf("%d", s.TotalCount)},
		{"Avg Flowrate", fmt.Sprintf("%.2f", s.AvgFlowrate)},
		{"Avg Pressure", fmt.Sprintf("%.2f", s.AvgPressure)},
		{"Avg Temperature", fmt.Sprintf("%.2f", s.AvgTemperature)},
	}

	y := pdf.GetY()
	pdf.SetFillColor(whiteSmoke[0], whiteSmoke[1], whiteSmoke[2])
	pdf.SetDrawColor(0xD3, 0xD3, 0xD3)
	for i, m := range metrics {
		x := margin + float64(i)*(cardWidth+cardGap)
		pdf.SetXY(x, y)
		pdf.SetFont("Helvetica", "B", 20)
		pdf.SetTextColor(deepPurple[0], deepPurple[1], deepPurple[2])
		pdf.CellFormat(cardWidth, 14, m.value, "LTR", 2, "C", true, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(gray[0], gray[1], gray[2])
		pdf.CellFormat(cardWidth, 8, m.label, "LBR", 0, "C", true, 0, "")
	}
	pdf.SetXY(margin, y+26)
}

func legend(pdf *gofpdf.Fpdf, entries []models.DistributionEntry) {
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for i, e := range entries {
		c := plot.Palette[i%len(plot.Palette)]
		pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
		pdf.CellFormat(5, 5, "", "", 0, "L", true, 0, "")
		pdf.CellFormat(2, 5, "", "", 0, "L", false, 0, "")
		pdf.CellFormat(pageWidth-7, 5, fmt.Sprintf("%s (%d)", tr(e.Category), e.Count), "", 1, "L", false, 0, "")
		pdf.Ln(1)
	}
}

func output(pdf *gofpdf.Fpdf, w io.Writer) error {
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
