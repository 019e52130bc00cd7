// Package templates manages carrier form templates: docx files with
// {{merge_point}} placeholders, stored in blob storage with their scanned
// merge points cached alongside the metadata row.
package templates

import (
	"time"

	"github.com/google/uuid"
)

// Template is a stored carrier form template.
type Template struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Carrier     string    `json:"carrier"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	StorageKey  string    `json:"storage_key"`
	MergePoints []string  `json:"merge_points"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DocxContentType is the content type required for uploaded templates.
const DocxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
