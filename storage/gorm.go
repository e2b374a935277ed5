package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/pivolan/equipment_analyzer/domain/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GormStore struct {
	db *gorm.DB
}

// OpenMySQL connects with the given DSN and migrates the datasets table.
func OpenMySQL(dsn string, debug bool) (*GormStore, error) {
	level := logger.Silent
	if debug {
		level = logger.Info
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(level)})
	if err != nil {
		return nil, fmt.Errorf("cannot connect to database: %w", err)
	}
	return NewGormStore(db)
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&models.UploadedDataset{}); err != nil {
		return nil, fmt.Errorf("migrate datasets: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Create(ctx context.Context, d *models.UploadedDataset) error {
	return s.db.WithContext(ctx).Create(d).Error
}

func (s *GormStore) Get(ctx context.Context, id string) (*models.UploadedDataset, error) {
	var d models.UploadedDataset
	err := s.db.WithContext(ctx).First(&d, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *GormStore) List(ctx context.Context, limit int) ([]models.UploadedDataset, error) {
	var list []models.UploadedDataset
	if err := s.listQuery(ctx, limit).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (s *GormStore) listQuery(ctx context.Context, limit int) *gorm.DB {
	tx := s.db.WithContext(ctx).Order("upload_timestamp desc")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	return tx
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	tx := s.db.WithContext(ctx).Delete(&models.UploadedDataset{}, "id = ?", id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
