package models

// QueryRecord is a confirmed lookup result. The millisecond-resolution
// timestamp is the record identity; rows are immutable once written except
// for deletion.
type QueryRecord struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	Timestamp string `gorm:"size:32;not null;uniqueIndex" json:"timestamp"`
	Query     string `gorm:"size:512;not null" json:"query"`
	Result    string `gorm:"type:text" json:"result"`
	Category  string `gorm:"size:64" json:"category,omitempty"`
}
