package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/pivolan/equipment_analyzer/domain/models"
)

// MemoryStore is used when no DB_DSN is configured and in tests.
type MemoryStore struct {
	mu       sync.RWMutex
	seq      int
	datasets map[string]memoryRow
}

type memoryRow struct {
	seq     int
	dataset models.UploadedDataset
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{datasets: map[string]memoryRow{}}
}

func (m *MemoryStore) Create(_ context.Context, d *models.UploadedDataset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.datasets[d.ID] = memoryRow{seq: m.seq, dataset: *d}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*models.UploadedDataset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	row, ok := m.datasets[id]
	if !ok {
		return nil, ErrNotFound
	}
	d := row.dataset
	return &d, nil
}

func (m *MemoryStore) List(_ context.Context, limit int) ([]models.UploadedDataset, error) {
	m.mu.RLock()
	rows := make([]memoryRow, 0, len(m.datasets))
	for _, row := range m.datasets {
		rows = append(rows, row)
	}
	m.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i].dataset.UploadTimestamp, rows[j].dataset.UploadTimestamp
		if !a.Equal(b) {
			return a.After(b)
		}
		return rows[i].seq > rows[j].seq
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	out := make([]models.UploadedDataset, len(rows))
	for i, row := range rows {
		out[i] = row.dataset
	}
	return out, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.datasets[id]; !ok {
		return ErrNotFound
	}
	delete(m.datasets, id)
	return nil
}
