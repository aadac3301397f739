package models

// ExportDocument is the downloadable snapshot of the record store.
type ExportDocument struct {
	Queries    []QueryRecord `json:"queries"`
	ExportTime string        `json:"exportTime"`
	Version    string        `json:"version"`
}

// ExportVersion is the schema tag written into every export.
const ExportVersion = "1.0"
