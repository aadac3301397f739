package repositories

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"termlens/internal/models"
)

type LookupSettingsRepository interface {
	Get(ctx context.Context) (*models.LookupSettings, error)
	Replace(ctx context.Context, settings *models.LookupSettings) error
}

type lookupSettingsRepository struct {
	db *gorm.DB
}

func NewLookupSettingsRepository(db *gorm.DB) LookupSettingsRepository {
	return &lookupSettingsRepository{db: db}
}

// DefaultLookupSettings returns the in-memory fallback used when no settings
// row exists yet or the stored row cannot be read.
func DefaultLookupSettings() *models.LookupSettings {
	return &models.LookupSettings{
		ID:              1,
		CategoryEnabled: false,
		Categories:      []string{},
	}
}

func (r *lookupSettingsRepository) Get(ctx context.Context) (*models.LookupSettings, error) {
	var settings models.LookupSettings
	if err := r.db.WithContext(ctx).First(&settings, 1).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DefaultLookupSettings(), nil
		}
		return nil, err
	}

	settings.Categories = []string{}
	if settings.CategoriesJSON != "" {
		if err := json.Unmarshal([]byte(settings.CategoriesJSON), &settings.Categories); err != nil {
			// A corrupt category list degrades to empty rather than
			// blocking the rest of the settings.
			settings.Categories = []string{}
		}
	}
	return &settings, nil
}

// Replace persists the whole settings object as the single row (ID=1).
func (r *lookupSettingsRepository) Replace(ctx context.Context, settings *models.LookupSettings) error {
	if settings == nil {
		return errors.New("settings are required")
	}
	settings.ID = 1

	encoded, err := json.Marshal(settings.Categories)
	if err != nil {
		return err
	}
	settings.CategoriesJSON = string(encoded)

	return r.db.WithContext(ctx).Save(settings).Error
}
