package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pivolan/equipment_analyzer/config"
	"github.com/pivolan/equipment_analyzer/domain/models"
	"github.com/pivolan/equipment_analyzer/engine"
	"github.com/pivolan/equipment_analyzer/ingest"
	"github.com/pivolan/equipment_analyzer/plot"
	"github.com/pivolan/equipment_analyzer/report"
	"github.com/pivolan/equipment_analyzer/storage"
	"github.com/rs/zerolog/log"
	uuid "github.com/satori/go.uuid"
)

const maxUploadMemory = 32 << 20

type server struct {
	store    storage.Store
	cfg      *config.Config
	notifier Notifier
}

func newServer(store storage.Store, cfg *config.Config, notifier Notifier) *server {
	return &server{store: store, cfg: cfg, notifier: notifier}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/upload/", s.handleUpload)
	mux.HandleFunc("GET /api/history/", s.handleHistory)
	mux.HandleFunc("GET /api/summary/{id}/", s.handleSummary)
	mux.HandleFunc("GET /api/data/{id}/", s.handleData)
	mux.HandleFunc("GET /api/report/{id}/", s.handleReport)
	mux.HandleFunc("GET /api/view/{id}/", s.handleView)
	mux.HandleFunc("GET /api/tooltip/{id}/", s.handleTooltip)
	mux.HandleFunc("GET /api/dashboard/{id}/", s.handleDashboard)
	mux.HandleFunc("GET /api/table/{id}/", s.handleTable)
	return logRequests(mux)
}

func (s *server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()
	if !ingest.AllowedUpload(header.Filename) {
		writeError(w, http.StatusBadRequest, "Unsupported file type: "+header.Filename)
		return
	}

	id := uuid.NewV4().String()
	filePath, err := s.saveUpload(id, header.Filename, file)
	if err != nil {
		log.Error().Err(err).Str("dataset", id).Msg("cannot save upload")
		writeError(w, http.StatusInternalServerError, "Error saving file")
		return
	}

	name := r.FormValue("dataset_name")
	if name == "" {
		name = header.Filename
	}
	summary, status := handleFile(filePath)
	d := &models.UploadedDataset{
		ID:              id,
		DatasetName:     name,
		FilePath:        filePath,
		UploadTimestamp: time.Now().UTC(),
		SummaryData:     &summary,
		Status:          status,
	}
	if err := s.store.Create(r.Context(), d); err != nil {
		log.Error().Err(err).Str("dataset", id).Msg("cannot store dataset")
		os.RemoveAll(filepath.Dir(filePath))
		writeError(w, http.StatusInternalServerError, "Error saving dataset")
		return
	}
	log.Info().Str("dataset", id).Str("name", name).Str("status", string(status)).Msg("dataset uploaded")

	removed, err := storage.Prune(r.Context(), s.store, s.cfg.HistoryLimit)
	if err != nil {
		log.Error().Err(err).Msg("cannot prune history")
	}
	removeDatasetFiles(removed)

	if s.notifier != nil && status == models.StatusProcessed {
		go s.notify(*d)
	}
	writeJSON(w, http.StatusCreated, d)
}

func (s *server) saveUpload(id, filename string, src io.Reader) (string, error) {
	dir := filepath.Join(s.cfg.UploadDir, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(dir, filepath.Base(filename))
	dst, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return filePath, nil
}

func (s *server) notify(d models.UploadedDataset) {
	records, _, err := loadRecords(d.FilePath)
	if err != nil {
		log.Warn().Err(err).Str("dataset", d.ID).Msg("cannot load records for notification")
	}
	s.notifier.NotifyUpload(&d, engine.NewView(records, d.SummaryData))
}

func (s *server) handleHistory(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context(), s.cfg.HistoryLimit)
	if err != nil {
		log.Error().Err(err).Msg("cannot list datasets")
		writeError(w, http.StatusInternalServerError, "Error loading history")
		return
	}
	items := make([]models.HistoryItem, 0, len(list))
	for _, d := range list {
		items = append(items, d.History())
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *server) handleSummary(w http.ResponseWriter, r *http.Request) {
	d, ok := s.dataset(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, struct {
		ID              string          `json:"id"`
		DatasetName     string          `json:"dataset_name"`
		UploadTimestamp time.Time       `json:"upload_timestamp"`
		SummaryData     *models.Summary `json:"summary_data"`
	}{d.ID, d.DatasetName, d.UploadTimestamp, d.SummaryData})
}

func (s *server) handleData(w http.ResponseWriter, r *http.Request) {
	_, records, ok := s.datasetRecords(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *server) handleReport(w http.ResponseWriter, r *http.Request) {
	d, ok := s.dataset(w, r)
	if !ok {
		return
	}
	var chartPNG []byte
	if d.SummaryData != nil && !d.SummaryData.Failed() {
		png, err := plot.DistributionPNG(*d.SummaryData)
		if err != nil && !errors.Is(err, plot.ErrNoData) {
			log.Warn().Err(err).Str("dataset", d.ID).Msg("cannot render distribution chart")
		}
		chartPNG = png
	}

	buf := &bytes.Buffer{}
	if err := report.Generate(buf, d, chartPNG); err != nil {
		log.Error().Err(err).Str("dataset", d.ID).Msg("cannot generate report")
		writeError(w, http.StatusInternalServerError, "Error generating report")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, report.Filename(d.ID)))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *server) handleView(w http.ResponseWriter, r *http.Request) {
	d, records, ok := s.datasetRecords(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, engine.NewView(records, d.SummaryData))
}

func (s *server) handleTooltip(w http.ResponseWriter, r *http.Request) {
	layer, err := strconv.Atoi(r.URL.Query().Get("layer"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "layer must be an integer")
		return
	}
	category := r.URL.Query().Get("category")
	d, records, ok := s.datasetRecords(w, r)
	if !ok {
		return
	}

	view := engine.NewView(records, d.SummaryData)
	resp := struct {
		Found  bool           `json:"found"`
		Label  string         `json:"label,omitempty"`
		Record *models.Record `json:"record,omitempty"`
	}{}
	if rec, found := view.Resolve(category, layer); found {
		resp.Found = true
		resp.Label = view.TooltipLabel(category, layer)
		resp.Record = &rec
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, records, ok := s.datasetRecords(w, r)
	if !ok {
		return
	}
	buf := &bytes.Buffer{}
	if err := plot.RenderDashboard(buf, d.DatasetName, engine.NewView(records, d.SummaryData), records); err != nil {
		log.Error().Err(err).Str("dataset", d.ID).Msg("cannot render dashboard")
		writeError(w, http.StatusInternalServerError, "Error rendering dashboard")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *server) handleTable(w http.ResponseWriter, r *http.Request) {
	d, records, ok := s.datasetRecords(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, GenerateDatasetText(d, engine.NewView(records, d.SummaryData), records))
}

// dataset loads the dataset named by the {id} path segment or writes a 404.
func (s *server) dataset(w http.ResponseWriter, r *http.Request) (*models.UploadedDataset, bool) {
	d, err := s.store.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Dataset not found")
		return nil, false
	}
	if err != nil {
		log.Error().Err(err).Str("dataset", r.PathValue("id")).Msg("cannot load dataset")
		writeError(w, http.StatusInternalServerError, "Error loading dataset")
		return nil, false
	}
	return d, true
}

func (s *server) datasetRecords(w http.ResponseWriter, r *http.Request) (*models.UploadedDataset, []models.Record, bool) {
	d, ok := s.dataset(w, r)
	if !ok {
		return nil, nil, false
	}
	records, _, err := loadRecords(d.FilePath)
	if err != nil {
		log.Error().Err(err).Str("dataset", d.ID).Msg("cannot read dataset file")
		writeError(w, http.StatusInternalServerError, "Error reading dataset file")
		return nil, nil, false
	}
	if records == nil {
		records = []models.Record{}
	}
	return d, records, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("cannot encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().Str("method", r.Method).Str("path", r.URL.Path).Dur("took", time.Since(start)).Msg("request")
	})
}
