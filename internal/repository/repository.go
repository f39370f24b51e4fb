// Package repository defines data access for the API's entities.
// Implementations live in subpackages (postgres); no business logic here.
package repository

import (
	"context"
	"errors"
	"time"

	"adaptagent/internal/model"
)

// ErrDuplicate is returned when a write violates a unique constraint.
var ErrDuplicate = errors.New("duplicate record")

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}

// UserRepository persists accounts.
type UserRepository interface {
	// Create inserts a user and returns the stored row. Duplicate username or email yields ErrDuplicate.
	Create(ctx context.Context, u *model.User) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	// Update writes the mutable profile fields (email, full name, bio).
	Update(ctx context.Context, u *model.User) (*model.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

// ProjectRepository persists projects. Every lookup is scoped to the owner;
// a row owned by someone else is reported as sql.ErrNoRows.
type ProjectRepository interface {
	Create(ctx context.Context, p *model.Project) (*model.Project, error)
	FindByID(ctx context.Context, ownerID, id string) (*model.Project, error)
	List(ctx context.Context, ownerID string, pq PageQuery) (*PageResult[model.Project], error)
	Update(ctx context.Context, p *model.Project) (*model.Project, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// TaskFilter narrows a task listing. Empty fields match everything.
type TaskFilter struct {
	ProjectID string
	Status    string
}

// TaskRepository persists tasks, scoped to the owner like ProjectRepository.
type TaskRepository interface {
	Create(ctx context.Context, t *model.Task) (*model.Task, error)
	FindByID(ctx context.Context, ownerID, id string) (*model.Task, error)
	List(ctx context.Context, ownerID string, f TaskFilter, pq PageQuery) (*PageResult[model.Task], error)
	Update(ctx context.Context, t *model.Task) (*model.Task, error)
	Delete(ctx context.Context, ownerID, id string) error
	// CountByStatus returns the number of tasks per status for the owner,
	// limited to one project when projectID is non-empty.
	CountByStatus(ctx context.Context, ownerID, projectID string) (map[string]int, error)
}

// KnowledgeFilter narrows a knowledge listing. Empty fields match everything.
type KnowledgeFilter struct {
	Tag       string
	ProjectID string
}

// KnowledgeRepository persists knowledge entries together with their tags.
type KnowledgeRepository interface {
	Create(ctx context.Context, k *model.Knowledge) (*model.Knowledge, error)
	FindByID(ctx context.Context, ownerID, id string) (*model.Knowledge, error)
	List(ctx context.Context, ownerID string, f KnowledgeFilter, pq PageQuery) (*PageResult[model.Knowledge], error)
	// Update writes title, content, model and project, and replaces the tag set.
	Update(ctx context.Context, k *model.Knowledge) (*model.Knowledge, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// TagRepository reads tags with usage counts.
type TagRepository interface {
	List(ctx context.Context, ownerID string) ([]model.Tag, error)
}

// AttachmentRepository persists uploaded file metadata.
type AttachmentRepository interface {
	Create(ctx context.Context, a *model.Attachment) (*model.Attachment, error)
	FindByID(ctx context.Context, ownerID, id string) (*model.Attachment, error)
	List(ctx context.Context, ownerID string, pq PageQuery) (*PageResult[model.Attachment], error)
	Delete(ctx context.Context, ownerID, id string) error
}
