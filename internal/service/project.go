package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"adaptagent/internal/cache"
	"adaptagent/internal/model"
	"adaptagent/internal/repository"
)

type ProjectInput struct {
	Name        string `json:"name" validate:"required,notblank,max=200"`
	Description string `json:"description" validate:"max=5000"`
}

// ProjectService manages the caller's projects.
type ProjectService interface {
	Create(ctx context.Context, ownerID string, in ProjectInput) (*model.Project, error)
	Get(ctx context.Context, ownerID, id string) (*model.Project, error)
	List(ctx context.Context, ownerID string, limit, offset int) (*ListResult[model.Project], error)
	Update(ctx context.Context, ownerID, id string, in ProjectInput) (*model.Project, error)
	// Delete removes the project together with its tasks.
	Delete(ctx context.Context, ownerID, id string) error
}

type projectService struct {
	repo   repository.ProjectRepository
	cache  cache.Cache
	logger *slog.Logger
	now    func() time.Time
}

// NewProjectService constructs a new ProjectService. The cache may be nil.
func NewProjectService(repo repository.ProjectRepository, c cache.Cache, logger *slog.Logger) ProjectService {
	return &projectService{repo: repo, cache: c, logger: logger, now: time.Now}
}

func (s *projectService) Create(ctx context.Context, ownerID string, in ProjectInput) (*model.Project, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	return s.repo.Create(ctx, &model.Project{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (s *projectService) Get(ctx context.Context, ownerID, id string) (*model.Project, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	p, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *projectService) List(ctx context.Context, ownerID string, limit, offset int) (*ListResult[model.Project], error) {
	pq := pageQuery(limit, offset)
	res, err := s.repo.List(ctx, ownerID, pq)
	if err != nil {
		return nil, err
	}
	return listResult(res, pq), nil
}

func (s *projectService) Update(ctx context.Context, ownerID, id string, in ProjectInput) (*model.Project, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	p, err := s.repo.Update(ctx, &model.Project{
		ID:          id,
		OwnerID:     ownerID,
		Name:        in.Name,
		Description: in.Description,
		UpdatedAt:   s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *projectService) Delete(ctx context.Context, ownerID, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProjectNotFound
		}
		return err
	}
	invalidateTasks(ctx, s.cache, s.logger, ownerID)
	return nil
}
