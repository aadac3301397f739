package services

import (
	"gorm.io/gorm"

	"termlens/internal/repositories"
)

// DbServices aggregates all domain services backed by the database.
type DbServices struct {
	Settings SettingsService
	History  HistoryService
	Lookups  *LookupService
}

// NewDbServices constructs the service container using repositories backed by db.
func NewDbServices(db *gorm.DB, keyring *KeyringService, chat ChatClient) *DbServices {
	recordRepo := repositories.NewQueryRecordRepository(db)
	settingsRepo := repositories.NewLookupSettingsRepository(db)

	settings := NewSettingsService(settingsRepo, keyring)

	return &DbServices{
		Settings: settings,
		History:  NewHistoryService(recordRepo),
		Lookups:  NewLookupService(settings, recordRepo, chat),
	}
}
