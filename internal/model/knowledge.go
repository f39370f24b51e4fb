package model

import "time"

// Knowledge is a free-form note, optionally produced by a model, labelled with tags.
type Knowledge struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	ProjectID *string   `json:"project_id,omitempty"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Model     *string   `json:"model,omitempty"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tag is a label shared by knowledge entries.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}
