package model

import "time"

// Attachment represents an uploaded file kept in object storage.
// This is a pure domain model with no database-specific dependencies or tags.
type Attachment struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"storage_path"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}
