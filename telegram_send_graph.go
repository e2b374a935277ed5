package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/pivolan/equipment_analyzer/domain/models"
	"github.com/pivolan/equipment_analyzer/engine"
	"github.com/pivolan/equipment_analyzer/plot"
	"github.com/rs/zerolog/log"
)

// Telegram rejects photos above this size, larger charts go out as documents.
const maxSizePhoto = 150000

// Notifier is told about every successfully processed upload.
type Notifier interface {
	NotifyUpload(d *models.UploadedDataset, view *engine.View)
}

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type telegramNotifier struct {
	api    sender
	chatID int64
}

func newTelegramNotifier(token string, chatID int64) (*telegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("tg error: %w", err)
	}
	log.Info().Str("account", bot.Self.UserName).Msg("telegram bot authorized")
	return &telegramNotifier{api: bot, chatID: chatID}, nil
}

// NotifyUpload sends the summary text followed by the stacked layers chart.
// Failures are logged only.
func (n *telegramNotifier) NotifyUpload(d *models.UploadedDataset, view *engine.View) {
	if _, err := n.api.Send(tgbotapi.NewMessage(n.chatID, uploadMessage(d))); err != nil {
		log.Error().Err(err).Str("dataset", d.ID).Msg("cannot send upload message")
		return
	}

	graph, err := plot.LayersPNG(view)
	if errors.Is(err, plot.ErrNoData) {
		return
	}
	if err != nil {
		log.Error().Err(err).Str("dataset", d.ID).Msg("cannot render layers chart")
		return
	}
	n.sendGraph(graph, d)
}

func (n *telegramNotifier) sendGraph(graph []byte, d *models.UploadedDataset) {
	pngFile := tgbotapi.FileBytes{
		Name:  fmt.Sprintf("layers_%s_%s.png", d.ID, time.Now().Format("20060102-150405")),
		Bytes: graph,
	}
	caption := fmt.Sprintf("Equipment Detail Count (Stacked): %s", d.DatasetName)

	var msg tgbotapi.Chattable
	if len(graph) < maxSizePhoto {
		photo := tgbotapi.NewPhotoUpload(n.chatID, pngFile)
		photo.Caption = caption
		msg = photo
	} else {
		doc := tgbotapi.NewDocumentUpload(n.chatID, pngFile)
		doc.Caption = caption
		msg = doc
	}
	if _, err := n.api.Send(msg); err != nil {
		log.Error().Err(err).Str("dataset", d.ID).Msg("cannot send layers chart")
	}
}

func uploadMessage(d *models.UploadedDataset) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "Dataset uploaded: %s\n", d.DatasetName)
	fmt.Fprintf(sb, "Status: %s\n", d.Status)
	if d.SummaryData == nil {
		return sb.String()
	}
	s := d.SummaryData
	if s.Failed() {
		fmt.Fprintf(sb, "Error: %s\n", s.Error)
		return sb.String()
	}
	fmt.Fprintf(sb, "Total Equipment: %d\n", s.TotalCount)
	fmt.Fprintf(sb, "Avg Flowrate: %.2f L/min\n", s.AvgFlowrate)
	fmt.Fprintf(sb, "Avg Pressure: %.2f bar\n", s.AvgPressure)
	fmt.Fprintf(sb, "Avg Temperature: %.2f °C\n", s.AvgTemperature)
	for _, e := range s.Distribution() {
		fmt.Fprintf(sb, "  %s: %d\n", e.Category, e.Count)
	}
	return sb.String()
}
