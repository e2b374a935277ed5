package models

import (
	"sort"
	"time"
)

type DatasetStatus string

const (
	StatusProcessed DatasetStatus = "processed"
	StatusError     DatasetStatus = "error"
)

// Summary is the aggregate payload served by summary/{id}/.
type Summary struct {
	TotalCount                int            `json:"total_count"`
	AvgFlowrate               float64        `json:"avg_flowrate"`
	AvgPressure               float64        `json:"avg_pressure"`
	AvgTemperature            float64        `json:"avg_temperature"`
	EquipmentTypeDistribution map[string]int `json:"equipment_type_distribution,omitempty"`
	Error                     string         `json:"error,omitempty"`
}

func (s Summary) Failed() bool {
	return s.Error != ""
}

// UploadedDataset is one stored upload. The file itself stays on disk at FilePath.
type UploadedDataset struct {
	ID              string        `json:"id" gorm:"type:varchar(36);primaryKey"`
	DatasetName     string        `json:"dataset_name" gorm:"type:varchar(255);not null"`
	FilePath        string        `json:"-" gorm:"type:varchar(1024);not null"`
	UploadTimestamp time.Time     `json:"upload_timestamp" gorm:"not null;index"`
	SummaryData     *Summary      `json:"summary_data" gorm:"serializer:json;type:json"`
	Status          DatasetStatus `json:"status" gorm:"type:varchar(32)"`
}

func (UploadedDataset) TableName() string {
	return "uploaded_datasets"
}

// HistoryItem is the trimmed row served by history/.
type HistoryItem struct {
	ID              string        `json:"id"`
	DatasetName     string        `json:"dataset_name"`
	UploadTimestamp time.Time     `json:"upload_timestamp"`
	Status          DatasetStatus `json:"status,omitempty"`
}

func (d UploadedDataset) History() HistoryItem {
	return HistoryItem{
		ID:              d.ID,
		DatasetName:     d.DatasetName,
		UploadTimestamp: d.UploadTimestamp,
		Status:          d.Status,
	}
}

type DistributionEntry struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Distribution lists EquipmentTypeDistribution by count descending, ties by category.
func (s Summary) Distribution() []DistributionEntry {
	out := make([]DistributionEntry, 0, len(s.EquipmentTypeDistribution))
	for c, n := range s.EquipmentTypeDistribution {
		out = append(out, DistributionEntry{Category: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}
