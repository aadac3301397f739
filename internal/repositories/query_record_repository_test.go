package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"termlens/internal/database"
	"termlens/internal/models"
)

func newTestRecordRepo(t *testing.T) QueryRecordRepository {
	t.Helper()
	db, err := database.Init(database.Config{
		Path:     "file::memory:",
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)
	return NewQueryRecordRepository(db)
}

func TestQueryRecords_ListNewestFirst(t *testing.T) {
	repo := newTestRecordRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &models.QueryRecord{Timestamp: "2026-08-23T10:00:00.000Z", Query: "old"}))
	require.NoError(t, repo.Insert(ctx, &models.QueryRecord{Timestamp: "2026-08-23T10:00:02.000Z", Query: "new"}))
	require.NoError(t, repo.Insert(ctx, &models.QueryRecord{Timestamp: "2026-08-23T10:00:01.000Z", Query: "mid"}))

	records, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "new", records[0].Query)
	assert.Equal(t, "mid", records[1].Query)
	assert.Equal(t, "old", records[2].Query)
}

func TestQueryRecords_TimestampCollisionIsLastWriteWins(t *testing.T) {
	repo := newTestRecordRepo(t)
	ctx := context.Background()

	ts := "2026-08-23T10:00:00.000Z"
	require.NoError(t, repo.Insert(ctx, &models.QueryRecord{Timestamp: ts, Query: "first", Result: "r1"}))
	require.NoError(t, repo.Insert(ctx, &models.QueryRecord{Timestamp: ts, Query: "second", Result: "r2", Category: "科学"}))

	records, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "second", records[0].Query)
	assert.Equal(t, "r2", records[0].Result)
	assert.Equal(t, "科学", records[0].Category)
}

func TestQueryRecords_InsertValidation(t *testing.T) {
	repo := newTestRecordRepo(t)
	ctx := context.Background()

	require.Error(t, repo.Insert(ctx, nil))
	require.Error(t, repo.Insert(ctx, &models.QueryRecord{Query: "no timestamp"}))
	require.Error(t, repo.Insert(ctx, &models.QueryRecord{Timestamp: "2026-08-23T10:00:00.000Z"}))
}

func TestQueryRecords_DeleteByTimestamp(t *testing.T) {
	repo := newTestRecordRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &models.QueryRecord{Timestamp: "2026-08-23T10:00:00.000Z", Query: "keep"}))
	require.NoError(t, repo.Insert(ctx, &models.QueryRecord{Timestamp: "2026-08-23T10:00:01.000Z", Query: "drop"}))

	require.NoError(t, repo.DeleteByTimestamp(ctx, "2026-08-23T10:00:01.000Z"))

	records, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "keep", records[0].Query)

	require.Error(t, repo.DeleteByTimestamp(ctx, ""))
}
