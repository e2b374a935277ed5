package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pivolan/equipment_analyzer/domain/models"
	"github.com/pivolan/equipment_analyzer/ingest"
	"github.com/rs/zerolog/log"
)

// loadRecords reads a stored upload back into rows, decompressing as needed.
func loadRecords(filePath string) ([]models.Record, []string, error) {
	rc, err := ingest.Open(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", filepath.Base(filePath), err)
	}
	defer rc.Close()
	return ingest.ParseCSV(rc)
}

// handleFile analyses a freshly saved upload. A file that cannot be read still
// yields a summary carrying the error.
func handleFile(filePath string) (models.Summary, models.DatasetStatus) {
	records, headers, err := loadRecords(filePath)
	if err != nil {
		log.Warn().Err(err).Str("file", filePath).Msg("cannot parse upload")
		return models.Summary{Error: err.Error()}, models.StatusError
	}
	summary := ingest.Analyze(records, headers)
	if summary.Failed() {
		return summary, models.StatusError
	}
	return summary, models.StatusProcessed
}

// removeDatasetFiles deletes the upload directory of every pruned dataset.
func removeDatasetFiles(datasets []models.UploadedDataset) {
	for _, d := range datasets {
		if d.FilePath == "" {
			continue
		}
		dir := filepath.Dir(d.FilePath)
		if err := os.RemoveAll(dir); err != nil {
			log.Error().Err(err).Str("dataset", d.ID).Msg("cannot remove dataset files")
			continue
		}
		log.Info().Str("dataset", d.ID).Str("dir", dir).Msg("removed dataset files")
	}
}
