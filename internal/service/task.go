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

// TaskListTTL is how long the default task listing stays cached.
const TaskListTTL = 5 * time.Minute

type TaskInput struct {
	ProjectID   *string    `json:"project_id" validate:"omitempty,uuid"`
	Title       string     `json:"title" validate:"required,notblank,max=255"`
	Description string     `json:"description" validate:"max=10000"`
	Status      string     `json:"status" validate:"omitempty,oneof=pending in_progress completed failed"`
	Model       *string    `json:"model" validate:"omitempty,max=100"`
	DueDate     *time.Time `json:"due_date"`
}

// TaskQuery filters and pages a task listing.
type TaskQuery struct {
	ProjectID string `validate:"omitempty,uuid"`
	Status    string `validate:"omitempty,oneof=pending in_progress completed failed"`
	Limit     int
	Offset    int
}

func (q TaskQuery) cacheable() bool {
	return q.ProjectID == "" && q.Status == "" && q.Offset <= 0 && (q.Limit <= 0 || q.Limit == DefaultLimit)
}

// TaskService manages the caller's tasks. The unfiltered first page is cached
// per user and dropped on every write.
type TaskService interface {
	Create(ctx context.Context, ownerID string, in TaskInput) (*model.Task, error)
	Get(ctx context.Context, ownerID, id string) (*model.Task, error)
	List(ctx context.Context, ownerID string, q TaskQuery) (*ListResult[model.Task], error)
	Update(ctx context.Context, ownerID, id string, in TaskInput) (*model.Task, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type taskService struct {
	repo     repository.TaskRepository
	projects repository.ProjectRepository
	cache    cache.Cache
	logger   *slog.Logger
	now      func() time.Time
}

// NewTaskService constructs a new TaskService. The cache may be nil.
func NewTaskService(repo repository.TaskRepository, projects repository.ProjectRepository, c cache.Cache, logger *slog.Logger) TaskService {
	return &taskService{repo: repo, projects: projects, cache: c, logger: logger, now: time.Now}
}

func (s *taskService) Create(ctx context.Context, ownerID string, in TaskInput) (*model.Task, error) {
	t, err := s.build(ctx, ownerID, in)
	if err != nil {
		return nil, err
	}
	if t.Status == "" {
		t.Status = model.TaskPending
	}
	t.ID = uuid.NewString()
	t.CreatedAt = t.UpdatedAt

	out, err := s.repo.Create(ctx, t)
	if err != nil {
		return nil, err
	}
	invalidateTasks(ctx, s.cache, s.logger, ownerID)
	return out, nil
}

func (s *taskService) Get(ctx context.Context, ownerID, id string) (*model.Task, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	t, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *taskService) List(ctx context.Context, ownerID string, q TaskQuery) (*ListResult[model.Task], error) {
	if err := validateStruct(q); err != nil {
		return nil, err
	}
	pq := pageQuery(q.Limit, q.Offset)

	cacheable := s.cache != nil && q.cacheable()
	if cacheable {
		var cached ListResult[model.Task]
		err := s.cache.Get(ctx, cache.TasksKey(ownerID), &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("cache_get_failed", "component", "cache", "key", cache.TasksKey(ownerID), "error_message", err.Error())
		}
	}

	res, err := s.repo.List(ctx, ownerID, repository.TaskFilter{ProjectID: q.ProjectID, Status: q.Status}, pq)
	if err != nil {
		return nil, err
	}
	out := listResult(res, pq)

	if cacheable {
		if err := s.cache.Set(ctx, cache.TasksKey(ownerID), out, TaskListTTL); err != nil {
			s.logger.Warn("cache_set_failed", "component", "cache", "key", cache.TasksKey(ownerID), "error_message", err.Error())
		}
	}
	return out, nil
}

func (s *taskService) Update(ctx context.Context, ownerID, id string, in TaskInput) (*model.Task, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	current, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	t, err := s.build(ctx, ownerID, in)
	if err != nil {
		return nil, err
	}
	if t.Status == "" {
		t.Status = current.Status
	}
	t.ID = id

	out, err := s.repo.Update(ctx, t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	invalidateTasks(ctx, s.cache, s.logger, ownerID)
	return out, nil
}

func (s *taskService) Delete(ctx context.Context, ownerID, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	invalidateTasks(ctx, s.cache, s.logger, ownerID)
	return nil
}

// build validates in and checks that a referenced project belongs to the owner.
func (s *taskService) build(ctx context.Context, ownerID string, in TaskInput) (*model.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.ProjectID != nil && *in.ProjectID == "" {
		in.ProjectID = nil
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.ProjectID != nil {
		if err := ensureProject(ctx, s.projects, ownerID, *in.ProjectID); err != nil {
			return nil, err
		}
	}
	if in.DueDate != nil {
		d := in.DueDate.UTC()
		in.DueDate = &d
	}
	return &model.Task{
		OwnerID:     ownerID,
		ProjectID:   in.ProjectID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Model:       in.Model,
		DueDate:     in.DueDate,
		UpdatedAt:   s.now().UTC(),
	}, nil
}

func ensureProject(ctx context.Context, projects repository.ProjectRepository, ownerID, projectID string) error {
	if _, err := projects.FindByID(ctx, ownerID, projectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProjectNotFound
		}
		return err
	}
	return nil
}

// invalidateTasks drops the cached task listing. Failures are logged only.
func invalidateTasks(ctx context.Context, c cache.Cache, logger *slog.Logger, ownerID string) {
	if c == nil {
		return
	}
	if err := c.Delete(ctx, cache.TasksKey(ownerID)); err != nil {
		logger.Warn("cache_invalidate_failed", "component", "cache", "key", cache.TasksKey(ownerID), "error_message", err.Error())
	}
}
