package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/pivolan/equipment_analyzer/domain/models"
)

var ErrNotFound = errors.New("dataset not found")

// Store keeps upload metadata. List returns the newest datasets first.
type Store interface {
	Create(ctx context.Context, d *models.UploadedDataset) error
	Get(ctx context.Context, id string) (*models.UploadedDataset, error)
	List(ctx context.Context, limit int) ([]models.UploadedDataset, error)
	Delete(ctx context.Context, id string) error
}

// Prune deletes every dataset past the newest keep and returns what it removed,
// so the caller can drop the stored files.
func Prune(ctx context.Context, s Store, keep int) ([]models.UploadedDataset, error) {
	if keep <= 0 {
		return nil, nil
	}
	all, err := s.List(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	if len(all) <= keep {
		return nil, nil
	}
	removed := all[keep:]
	for _, d := range removed {
		if err := s.Delete(ctx, d.ID); err != nil && !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("delete dataset %s: %w", d.ID, err)
		}
	}
	return removed, nil
}
