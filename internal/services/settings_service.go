package services

import (
	"context"
	"strings"
	"time"

	"termlens/internal/events"
	"termlens/internal/llm/client"
	"termlens/internal/models"
	"termlens/internal/repositories"
)

type SettingsService interface {
	Startup(ctx context.Context)
	Get() (*models.LookupSettings, error)
	Save(settings *models.LookupSettings) (*models.LookupSettings, error)
}

type settingsService struct {
	repo    repositories.LookupSettingsRepository
	keyring *KeyringService
	context context.Context
}

func NewSettingsService(repo repositories.LookupSettingsRepository, keyring *KeyringService) SettingsService {
	return &settingsService{repo: repo, keyring: keyring}
}

func (s *settingsService) Startup(ctx context.Context) {
	s.context = ctx
}

// Get returns the stored settings merged with the keyring-held API keys.
// Load failures degrade to defaults with a warning rather than blocking the
// app.
func (s *settingsService) Get() (*models.LookupSettings, error) {
	settings, err := s.repo.Get(context.Background())
	if err != nil {
		events.Emit(s.context, events.StoreNotice, events.NewWarn("failed to load settings, using defaults: "+err.Error()))
		settings = repositories.DefaultLookupSettings()
	}

	if key, err := s.keyring.GetAPIKey(QueryKeySlot); err != nil {
		events.Emit(s.context, events.StoreNotice, events.NewWarn("failed to read query API key: "+err.Error()))
	} else {
		settings.QueryAPIKey = key
	}
	if key, err := s.keyring.GetAPIKey(CategoryKeySlot); err != nil {
		events.Emit(s.context, events.StoreNotice, events.NewWarn("failed to read category API key: "+err.Error()))
	} else {
		settings.CategoryAPIKey = key
	}

	if strings.TrimSpace(settings.QueryPrompt) == "" {
		settings.QueryPrompt = client.DefaultExplainPrompt()
	}
	if strings.TrimSpace(settings.CategoryPrompt) == "" {
		settings.CategoryPrompt = client.DefaultCategorizePrompt()
	}

	return settings, nil
}

// Save validates the whole settings object, then persists the keys to the
// keyring and everything else as the single settings row.
func (s *settingsService) Save(settings *models.LookupSettings) (*models.LookupSettings, error) {
	if settings == nil {
		return nil, validationErrorf("settings are required")
	}

	settings.QueryAPIURL = strings.TrimSpace(settings.QueryAPIURL)
	settings.QueryAPIKey = strings.TrimSpace(settings.QueryAPIKey)
	settings.QueryModel = strings.TrimSpace(settings.QueryModel)
	settings.CategoryAPIURL = strings.TrimSpace(settings.CategoryAPIURL)
	settings.CategoryAPIKey = strings.TrimSpace(settings.CategoryAPIKey)
	settings.CategoryModel = strings.TrimSpace(settings.CategoryModel)

	if settings.QueryAPIURL == "" {
		return nil, validationErrorf("query API URL is required")
	}
	if settings.QueryAPIKey == "" {
		return nil, validationErrorf("query API key is required")
	}
	if settings.QueryModel == "" {
		return nil, validationErrorf("query model is required")
	}

	settings.Categories = dedupeCategories(settings.Categories)

	if settings.CategoryEnabled {
		if settings.CategoryAPIURL == "" {
			return nil, validationErrorf("category API URL is required when categorization is enabled")
		}
		if settings.CategoryAPIKey == "" {
			return nil, validationErrorf("category API key is required when categorization is enabled")
		}
		if settings.CategoryModel == "" {
			return nil, validationErrorf("category model is required when categorization is enabled")
		}
		if len(settings.Categories) == 0 {
			return nil, validationErrorf("at least one category is required when categorization is enabled")
		}
	}

	if strings.TrimSpace(settings.QueryPrompt) == "" {
		settings.QueryPrompt = client.DefaultExplainPrompt()
	}
	if strings.TrimSpace(settings.CategoryPrompt) == "" {
		settings.CategoryPrompt = client.DefaultCategorizePrompt()
	}

	if err := s.keyring.StoreAPIKey(QueryKeySlot, settings.QueryAPIKey); err != nil {
		return nil, err
	}
	if err := s.keyring.StoreAPIKey(CategoryKeySlot, settings.CategoryAPIKey); err != nil {
		return nil, err
	}

	settings.UpdatedAt = time.Now()
	if err := s.repo.Replace(context.Background(), settings); err != nil {
		events.Emit(s.context, events.StoreNotice, events.NewError("failed to persist settings: "+err.Error()))
		return nil, err
	}

	return settings, nil
}

// dedupeCategories trims entries and drops duplicates while preserving the
// first occurrence's position.
func dedupeCategories(categories []string) []string {
	seen := make(map[string]bool, len(categories))
	out := make([]string, 0, len(categories))
	for _, category := range categories {
		category = strings.TrimSpace(category)
		if category == "" || seen[category] {
			continue
		}
		seen[category] = true
		out = append(out, category)
	}
	return out
}
