package models

// PendingLookup is an explanation (and optional category) retrieved from the
// remote endpoint but not yet confirmed into the record store.
type PendingLookup struct {
	Query    string `json:"query"`
	Result   string `json:"result"`
	Category string `json:"category,omitempty"`
}
