package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pivolan/equipment_analyzer/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var _ Store = (*MemoryStore)(nil)
var _ Store = (*GormStore)(nil)

func seed(t *testing.T, s Store, n int) {
	t.Helper()
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		require.NoError(t, s.Create(context.Background(), &models.UploadedDataset{
			ID:              fmt.Sprintf("ds-%d", i),
			DatasetName:     fmt.Sprintf("upload %d", i),
			UploadTimestamp: base.Add(time.Duration(i) * time.Minute),
			SummaryData:     &models.Summary{TotalCount: i},
			Status:          models.StatusProcessed,
		}))
	}
}

func ids(list []models.UploadedDataset) []string {
	out := []string{}
	for _, d := range list {
		out = append(out, d.ID)
	}
	return out
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seed(t, s, 3)

	d, err := s.Get(ctx, "ds-1")
	require.NoError(t, err)
	assert.Equal(t, "upload 1", d.DatasetName)
	assert.Equal(t, 1, d.SummaryData.TotalCount)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"ds-2", "ds-1", "ds-0"}, ids(list))

	list, err = s.List(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"ds-2", "ds-1"}, ids(list))

	require.NoError(t, s.Delete(ctx, "ds-2"))
	assert.ErrorIs(t, s.Delete(ctx, "ds-2"), ErrNotFound)
}

func TestMemoryStoreSameTimestampNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Now()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Create(ctx, &models.UploadedDataset{ID: id, UploadTimestamp: now}))
	}
	list, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, ids(list))
}

func TestPrune(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seed(t, s, 7)

	removed, err := Prune(ctx, s, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"ds-1", "ds-0"}, ids(removed))

	list, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"ds-6", "ds-5", "ds-4", "ds-3", "ds-2"}, ids(list))

	removed, err = Prune(ctx, s, 5)
	require.NoError(t, err)
	assert.Empty(t, removed)

	removed, err = Prune(ctx, s, 0)
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestGormListQuery(t *testing.T) {
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "user:pass@tcp(127.0.0.1:3306)/equipment",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	s := &GormStore{db: db}

	var list []models.UploadedDataset
	stmt := s.listQuery(context.Background(), 5).Find(&list).Statement
	sql := stmt.SQL.String()
	assert.Contains(t, sql, "FROM `uploaded_datasets`")
	assert.Contains(t, sql, "ORDER BY upload_timestamp desc")
	assert.Contains(t, sql, "LIMIT")

	stmt = s.listQuery(context.Background(), 0).Find(&list).Statement
	assert.NotContains(t, stmt.SQL.String(), "LIMIT")
}
