package main

import (
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/pivolan/equipment_analyzer/domain/models"
	"github.com/pivolan/equipment_analyzer/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

func processedDataset() *models.UploadedDataset {
	return &models.UploadedDataset{
		ID:              "ds-1",
		DatasetName:     "plant.csv",
		UploadTimestamp: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Status:          models.StatusProcessed,
		SummaryData: &models.Summary{
			TotalCount:                3,
			AvgFlowrate:               20,
			AvgPressure:               4,
			AvgTemperature:            90,
			EquipmentTypeDistribution: map[string]int{"Pump": 2, "Valve": 1},
		},
	}
}

func TestNotifyUploadSendsTextAndChart(t *testing.T) {
	api := &fakeSender{}
	n := &telegramNotifier{api: api, chatID: 42}
	records := []models.Record{
		models.NewRecord("Name", "P-1", "Type", "Pump"),
		models.NewRecord("Name", "P-2", "Type", "Pump"),
		models.NewRecord("Name", "V-1", "Type", "Valve"),
	}

	n.NotifyUpload(processedDataset(), engine.NewView(records, nil))

	require.Len(t, api.sent, 2)
	msg, ok := api.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Contains(t, msg.Text, "Total Equipment: 3")

	photo, ok := api.sent[1].(tgbotapi.PhotoConfig)
	require.True(t, ok)
	assert.Contains(t, photo.Caption, "plant.csv")
}

func TestNotifyUploadWithoutRecords(t *testing.T) {
	api := &fakeSender{}
	n := &telegramNotifier{api: api, chatID: 42}
	n.NotifyUpload(processedDataset(), engine.NewView(nil, nil))
	assert.Len(t, api.sent, 1)
}

func TestNotifyUploadStopsOnSendError(t *testing.T) {
	api := &fakeSender{err: errors.New("telegram is down")}
	n := &telegramNotifier{api: api, chatID: 42}
	n.NotifyUpload(processedDataset(), engine.NewView([]models.Record{models.NewRecord("Type", "Pump")}, nil))
	assert.Len(t, api.sent, 1)
}

func TestUploadMessage(t *testing.T) {
	msg := uploadMessage(processedDataset())
	assert.Equal(t, "Dataset uploaded: plant.csv\n"+
		"Status: processed\n"+
		"Total Equipment: 3\n"+
		"Avg Flowrate: 20.00 L/min\n"+
		"Avg Pressure: 4.00 bar\n"+
		"Avg Temperature: 90.00 °C\n"+
		"  Pump: 2\n"+
		"  Valve: 1\n", msg)

	failed := processedDataset()
	failed.Status = models.StatusError
	failed.SummaryData = &models.Summary{Error: "Dataset is empty"}
	assert.Contains(t, uploadMessage(failed), "Error: Dataset is empty")
}
