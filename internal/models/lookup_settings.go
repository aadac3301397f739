package models

import "time"

// LookupSettings is the single-row (ID=1) configuration for both remote
// endpoints and the category list. The API key fields cross the service
// boundary on this struct but are persisted to the OS keyring, never to the
// database; CategoriesJSON is the stored form of Categories.
type LookupSettings struct {
	ID              uint      `gorm:"primaryKey" json:"-"`
	QueryAPIURL     string    `gorm:"size:512" json:"queryApiUrl"`
	QueryAPIKey     string    `gorm:"-" json:"queryApiKey"`
	QueryModel      string    `gorm:"size:128" json:"queryModel"`
	QueryPrompt     string    `gorm:"type:text" json:"queryPrompt"`
	CategoryEnabled bool      `json:"categoryEnabled"`
	CategoryAPIURL  string    `gorm:"size:512" json:"categoryApiUrl"`
	CategoryAPIKey  string    `gorm:"-" json:"categoryApiKey"`
	CategoryModel   string    `gorm:"size:128" json:"categoryModel"`
	CategoryPrompt  string    `gorm:"type:text" json:"categoryPrompt"`
	CategoriesJSON  string    `gorm:"type:text" json:"-"`
	Categories      []string  `gorm:"-" json:"predefinedCategories"`
	UpdatedAt       time.Time `json:"-"`
}
