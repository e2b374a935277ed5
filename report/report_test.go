package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/pivolan/equipment_analyzer/domain/models"
	"github.com/pivolan/equipment_analyzer/plot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dataset(summary *models.Summary) *models.UploadedDataset {
	return &models.UploadedDataset{
		ID:              "abc",
		DatasetName:     "plant_a.csv",
		UploadTimestamp: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		SummaryData:     summary,
		Status:          models.StatusProcessed,
	}
}

func TestGenerateWithChart(t *testing.T) {
	summary := &models.Summary{
		TotalCount:                4,
		AvgFlowrate:               12.5,
		AvgPressure:               3.25,
		AvgTemperature:            80,
		EquipmentTypeDistribution: map[string]int{"Pump": 3, "Valve": 1},
	}
	chart, err := plot.DistributionPNG(*summary)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, dataset(summary), chart))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestGenerateFailedSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, dataset(&models.Summary{Error: "Dataset is empty"}), nil))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	buf.Reset()
	require.NoError(t, Generate(&buf, dataset(nil), nil))
	assert.NotZero(t, buf.Len())
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "report_abc.pdf", Filename("abc"))
}

func TestFitChart(t *testing.T) {
	w, h := fitChart(380, 200)
	assert.Equal(t, pageWidth, w)
	assert.InDelta(t, 100, h, 0.001)

	w, h = fitChart(100, 200)
	assert.Equal(t, chartHeight, h)
	assert.InDelta(t, 55, w, 0.001)

	w, h = fitChart(0, 0)
	assert.Equal(t, pageWidth, w)
	assert.Equal(t, chartHeight, h)
}
