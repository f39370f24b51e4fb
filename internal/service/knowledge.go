package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"adaptagent/internal/model"
	"adaptagent/internal/repository"
)

type KnowledgeInput struct {
	ProjectID *string  `json:"project_id" validate:"omitempty,uuid"`
	Title     string   `json:"title" validate:"max=255"`
	Content   string   `json:"content" validate:"required,notblank,max=100000"`
	Model     *string  `json:"model" validate:"omitempty,max=100"`
	Tags      []string `json:"tags" validate:"max=20,dive,notblank,max=50"`
}

// KnowledgeQuery filters and pages a knowledge listing.
type KnowledgeQuery struct {
	Tag       string
	ProjectID string `validate:"omitempty,uuid"`
	Limit     int
	Offset    int
}

// KnowledgeService manages the caller's knowledge entries and their tags.
type KnowledgeService interface {
	Create(ctx context.Context, ownerID string, in KnowledgeInput) (*model.Knowledge, error)
	Get(ctx context.Context, ownerID, id string) (*model.Knowledge, error)
	List(ctx context.Context, ownerID string, q KnowledgeQuery) (*ListResult[model.Knowledge], error)
	Update(ctx context.Context, ownerID, id string, in KnowledgeInput) (*model.Knowledge, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type knowledgeService struct {
	repo     repository.KnowledgeRepository
	projects repository.ProjectRepository
	now      func() time.Time
}

// NewKnowledgeService constructs a new KnowledgeService.
func NewKnowledgeService(repo repository.KnowledgeRepository, projects repository.ProjectRepository) KnowledgeService {
	return &knowledgeService{repo: repo, projects: projects, now: time.Now}
}

func (s *knowledgeService) Create(ctx context.Context, ownerID string, in KnowledgeInput) (*model.Knowledge, error) {
	k, err := s.build(ctx, ownerID, in)
	if err != nil {
		return nil, err
	}
	k.ID = uuid.NewString()
	k.CreatedAt = k.UpdatedAt
	return s.repo.Create(ctx, k)
}

func (s *knowledgeService) Get(ctx context.Context, ownerID, id string) (*model.Knowledge, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	k, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return k, nil
}

func (s *knowledgeService) List(ctx context.Context, ownerID string, q KnowledgeQuery) (*ListResult[model.Knowledge], error) {
	if err := validateStruct(q); err != nil {
		return nil, err
	}
	pq := pageQuery(q.Limit, q.Offset)
	res, err := s.repo.List(ctx, ownerID, repository.KnowledgeFilter{
		Tag:       normalizeTag(q.Tag),
		ProjectID: q.ProjectID,
	}, pq)
	if err != nil {
		return nil, err
	}
	return listResult(res, pq), nil
}

func (s *knowledgeService) Update(ctx context.Context, ownerID, id string, in KnowledgeInput) (*model.Knowledge, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	k, err := s.build(ctx, ownerID, in)
	if err != nil {
		return nil, err
	}
	k.ID = id

	out, err := s.repo.Update(ctx, k)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return out, nil
}

func (s *knowledgeService) Delete(ctx context.Context, ownerID, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *knowledgeService) build(ctx context.Context, ownerID string, in KnowledgeInput) (*model.Knowledge, error) {
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
	return &model.Knowledge{
		OwnerID:   ownerID,
		ProjectID: in.ProjectID,
		Title:     in.Title,
		Content:   in.Content,
		Model:     in.Model,
		Tags:      NormalizeTags(in.Tags),
		UpdatedAt: s.now().UTC(),
	}, nil
}

// NormalizeTags trims and lower-cases tags, drops blanks and duplicates, and sorts the result.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = normalizeTag(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

// TagService lists the tags in use by the caller's knowledge entries.
type TagService interface {
	List(ctx context.Context, ownerID string) ([]model.Tag, error)
}

type tagService struct {
	repo repository.TagRepository
}

// NewTagService constructs a new TagService.
func NewTagService(repo repository.TagRepository) TagService {
	return &tagService{repo: repo}
}

func (s *tagService) List(ctx context.Context, ownerID string) ([]model.Tag, error) {
	return s.repo.List(ctx, ownerID)
}
