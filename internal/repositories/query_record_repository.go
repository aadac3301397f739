package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"termlens/internal/models"
)

type QueryRecordRepository interface {
	List(ctx context.Context) ([]models.QueryRecord, error)
	Insert(ctx context.Context, record *models.QueryRecord) error
	DeleteByTimestamp(ctx context.Context, timestamp string) error
}

type queryRecordRepository struct {
	db *gorm.DB
}

func NewQueryRecordRepository(db *gorm.DB) QueryRecordRepository {
	return &queryRecordRepository{db: db}
}

// List returns all records newest-first. Timestamps are RFC3339 UTC with
// milliseconds, so lexicographic order is chronological order.
func (r *queryRecordRepository) List(ctx context.Context) ([]models.QueryRecord, error) {
	var records []models.QueryRecord
	if err := r.db.WithContext(ctx).Order("timestamp DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Insert writes a confirmed record. The timestamp is the record identity;
// a same-timestamp collision is resolved last-write-wins.
func (r *queryRecordRepository) Insert(ctx context.Context, record *models.QueryRecord) error {
	if record == nil {
		return fmt.Errorf("record is required")
	}
	if record.Timestamp == "" {
		return fmt.Errorf("record timestamp is required")
	}
	if record.Query == "" {
		return fmt.Errorf("record query is required")
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "timestamp"}},
		DoUpdates: clause.AssignmentColumns([]string{"query", "result", "category"}),
	}).Create(record).Error
}

func (r *queryRecordRepository) DeleteByTimestamp(ctx context.Context, timestamp string) error {
	if timestamp == "" {
		return fmt.Errorf("timestamp is required")
	}
	return r.db.WithContext(ctx).Where("timestamp = ?", timestamp).Delete(&models.QueryRecord{}).Error
}
