package services

import (
	"context"
	"strings"

	"termlens/internal/models"
	"termlens/internal/repositories"
)

// Category selector values understood by Search.
const (
	CategoryFilterAll           = "all"
	CategoryFilterUncategorized = "uncategorized"
)

type HistoryService interface {
	Startup(ctx context.Context)
	List() ([]models.QueryRecord, error)
	Search(term string, category string) ([]models.QueryRecord, error)
	Delete(timestamp string) error
	Export() (*models.ExportDocument, error)
}

type historyService struct {
	records repositories.QueryRecordRepository
	context context.Context
}

func NewHistoryService(records repositories.QueryRecordRepository) HistoryService {
	return &historyService{records: records}
}

func (s *historyService) Startup(ctx context.Context) {
	s.context = ctx
}

func (s *historyService) List() ([]models.QueryRecord, error) {
	return s.records.List(context.Background())
}

// Search is pure read-side filtering: the term matches case-insensitively
// against query or result text, the category selector must match as well.
func (s *historyService) Search(term string, category string) ([]models.QueryRecord, error) {
	records, err := s.records.List(context.Background())
	if err != nil {
		return nil, err
	}

	term = strings.ToLower(strings.TrimSpace(term))
	category = strings.TrimSpace(category)
	if category == "" {
		category = CategoryFilterAll
	}

	filtered := make([]models.QueryRecord, 0, len(records))
	for _, record := range records {
		if !matchesCategory(record, category) {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(record.Query), term) &&
			!strings.Contains(strings.ToLower(record.Result), term) {
			continue
		}
		filtered = append(filtered, record)
	}
	return filtered, nil
}

func matchesCategory(record models.QueryRecord, category string) bool {
	switch category {
	case CategoryFilterAll:
		return true
	case CategoryFilterUncategorized:
		return record.Category == ""
	default:
		return record.Category == category
	}
}

// Delete removes exactly the record identified by timestamp.
func (s *historyService) Delete(timestamp string) error {
	if strings.TrimSpace(timestamp) == "" {
		return validationErrorf("timestamp is required")
	}
	return s.records.DeleteByTimestamp(context.Background(), timestamp)
}

// Export snapshots the full record list at call time.
func (s *historyService) Export() (*models.ExportDocument, error) {
	records, err := s.records.List(context.Background())
	if err != nil {
		return nil, err
	}
	return &models.ExportDocument{
		Queries:    records,
		ExportTime: newRecordTimestamp(),
		Version:    models.ExportVersion,
	}, nil
}
