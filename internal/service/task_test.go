package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"adaptagent/internal/cache"
	cacheMocks "adaptagent/internal/cache/mocks"
	"adaptagent/internal/logging"
	"adaptagent/internal/model"
	"adaptagent/internal/repository"
	repoMocks "adaptagent/internal/repository/mocks"
)

const testProjectID = "7f1c2a4e-9b7d-4c3e-8a51-2f6d0e9b1c3a"

func strPtr(s string) *string { return &s }

func TestTaskService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		in         TaskInput
		setupMocks func(mRepo *repoMocks.MockTaskRepository, mProjects *repoMocks.MockProjectRepository, mCache *cacheMocks.MockCache)
		wantErr    error
	}{
		{
			name: "defaults to pending",
			in:   TaskInput{Title: "Write docs"},
			setupMocks: func(mRepo *repoMocks.MockTaskRepository, mProjects *repoMocks.MockProjectRepository, mCache *cacheMocks.MockCache) {
				mRepo.On("Create", ctx, mock.MatchedBy(func(t *model.Task) bool {
					return t.Status == model.TaskPending && t.OwnerID == "u1" && t.ProjectID == nil
				})).Return(&model.Task{ID: "t1", Status: model.TaskPending}, nil)
				mCache.On("Delete", ctx, "tasks:u1").Return(nil)
			},
		},
		{
			name: "checks project ownership",
			in:   TaskInput{Title: "Write docs", ProjectID: strPtr(testProjectID), Status: model.TaskInProgress},
			setupMocks: func(mRepo *repoMocks.MockTaskRepository, mProjects *repoMocks.MockProjectRepository, mCache *cacheMocks.MockCache) {
				mProjects.On("FindByID", ctx, "u1", testProjectID).Return(&model.Project{ID: testProjectID}, nil)
				mRepo.On("Create", ctx, mock.MatchedBy(func(t *model.Task) bool {
					return t.ProjectID != nil && *t.ProjectID == testProjectID && t.Status == model.TaskInProgress
				})).Return(&model.Task{ID: "t1"}, nil)
				mCache.On("Delete", ctx, "tasks:u1").Return(nil)
			},
		},
		{
			name: "foreign project",
			in:   TaskInput{Title: "Write docs", ProjectID: strPtr(testProjectID)},
			setupMocks: func(mRepo *repoMocks.MockTaskRepository, mProjects *repoMocks.MockProjectRepository, mCache *cacheMocks.MockCache) {
				mProjects.On("FindByID", ctx, "u1", testProjectID).Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrProjectNotFound,
		},
		{
			name:       "invalid status",
			in:         TaskInput{Title: "Write docs", Status: "done"},
			setupMocks: func(mRepo *repoMocks.MockTaskRepository, mProjects *repoMocks.MockProjectRepository, mCache *cacheMocks.MockCache) {},
			wantErr:    ValidationErrors{},
		},
		{
			name:       "missing title",
			in:         TaskInput{Title: " "},
			setupMocks: func(mRepo *repoMocks.MockTaskRepository, mProjects *repoMocks.MockProjectRepository, mCache *cacheMocks.MockCache) {},
			wantErr:    ValidationErrors{},
		},
		{
			name: "cache failure does not fail the write",
			in:   TaskInput{Title: "Write docs"},
			setupMocks: func(mRepo *repoMocks.MockTaskRepository, mProjects *repoMocks.MockProjectRepository, mCache *cacheMocks.MockCache) {
				mRepo.On("Create", ctx, mock.Anything).Return(&model.Task{ID: "t1"}, nil)
				mCache.On("Delete", ctx, "tasks:u1").Return(errors.New("redis down"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockTaskRepository)
			mProjects := new(repoMocks.MockProjectRepository)
			mCache := new(cacheMocks.MockCache)
			tt.setupMocks(mRepo, mProjects, mCache)

			task, err := NewTaskService(mRepo, mProjects, mCache, logging.Discard()).Create(ctx, "u1", tt.in)

			switch {
			case errors.As(tt.wantErr, new(ValidationErrors)):
				assert.ErrorAs(t, err, new(ValidationErrors))
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				require.NoError(t, err)
				assert.Equal(t, "t1", task.ID)
			}
			mRepo.AssertExpectations(t)
			mProjects.AssertExpectations(t)
			mCache.AssertExpectations(t)
		})
	}
}

func TestTaskService_List(t *testing.T) {
	ctx := context.Background()
	page := &repository.PageResult[model.Task]{Items: []model.Task{{ID: "t1", Title: "A"}}, Total: 1}

	t.Run("cache hit skips the database", func(t *testing.T) {
		mRepo := new(repoMocks.MockTaskRepository)
		mCache := new(cacheMocks.MockCache)
		mCache.On("Get", ctx, "tasks:u1", mock.Anything).
			Return(ListResult[model.Task]{Items: []model.Task{{ID: "cached"}}, Total: 1, Limit: 10}, nil)

		res, err := NewTaskService(mRepo, nil, mCache, logging.Discard()).List(ctx, "u1", TaskQuery{})

		require.NoError(t, err)
		assert.Equal(t, "cached", res.Items[0].ID)
		mRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cache miss fills the cache", func(t *testing.T) {
		mRepo := new(repoMocks.MockTaskRepository)
		mCache := new(cacheMocks.MockCache)
		mCache.On("Get", ctx, "tasks:u1", mock.Anything).Return(nil, cache.ErrMiss)
		mRepo.On("List", ctx, "u1", repository.TaskFilter{}, repository.PageQuery{Limit: 10}).Return(page, nil)
		mCache.On("Set", ctx, "tasks:u1", mock.Anything, TaskListTTL).Return(nil)

		res, err := NewTaskService(mRepo, nil, mCache, logging.Discard()).List(ctx, "u1", TaskQuery{})

		require.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		mRepo.AssertExpectations(t)
		mCache.AssertExpectations(t)
	})

	t.Run("broken cache is logged and bypassed", func(t *testing.T) {
		var buf bytes.Buffer
		mRepo := new(repoMocks.MockTaskRepository)
		mCache := new(cacheMocks.MockCache)
		mCache.On("Get", ctx, "tasks:u1", mock.Anything).Return(nil, errors.New("redis down"))
		mRepo.On("List", ctx, "u1", repository.TaskFilter{}, repository.PageQuery{Limit: 10}).Return(page, nil)
		mCache.On("Set", ctx, "tasks:u1", mock.Anything, TaskListTTL).Return(errors.New("redis down"))

		res, err := NewTaskService(mRepo, nil, mCache, logging.New(&buf, time.UTC)).List(ctx, "u1", TaskQuery{})

		require.NoError(t, err)
		assert.Len(t, res.Items, 1)
		assert.Contains(t, buf.String(), "cache_get_failed")
		assert.Contains(t, buf.String(), "cache_set_failed")
	})

	t.Run("filtered listings bypass the cache", func(t *testing.T) {
		mRepo := new(repoMocks.MockTaskRepository)
		mCache := new(cacheMocks.MockCache)
		mRepo.On("List", ctx, "u1", repository.TaskFilter{ProjectID: testProjectID, Status: model.TaskCompleted}, repository.PageQuery{Limit: 5, Offset: 5}).
			Return(page, nil)

		_, err := NewTaskService(mRepo, nil, mCache, logging.Discard()).List(ctx, "u1", TaskQuery{
			ProjectID: testProjectID, Status: model.TaskCompleted, Limit: 5, Offset: 5,
		})

		require.NoError(t, err)
		mCache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := NewTaskService(new(repoMocks.MockTaskRepository), nil, nil, logging.Discard()).List(ctx, "u1", TaskQuery{Status: "bogus"})
		assert.ErrorAs(t, err, new(ValidationErrors))
	})

	t.Run("works without a cache", func(t *testing.T) {
		mRepo := new(repoMocks.MockTaskRepository)
		mRepo.On("List", ctx, "u1", repository.TaskFilter{}, repository.PageQuery{Limit: 10}).Return(page, nil)

		_, err := NewTaskService(mRepo, nil, nil, logging.Discard()).List(ctx, "u1", TaskQuery{})
		assert.NoError(t, err)
	})
}

func TestTaskService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps status when omitted", func(t *testing.T) {
		mRepo := new(repoMocks.MockTaskRepository)
		mCache := new(cacheMocks.MockCache)
		mRepo.On("FindByID", ctx, "u1", "t1").Return(&model.Task{ID: "t1", Status: model.TaskCompleted}, nil)
		mRepo.On("Update", ctx, mock.MatchedBy(func(t *model.Task) bool {
			return t.ID == "t1" && t.Status == model.TaskCompleted && t.Title == "Renamed"
		})).Return(&model.Task{ID: "t1", Title: "Renamed"}, nil)
		mCache.On("Delete", ctx, "tasks:u1").Return(nil)

		task, err := NewTaskService(mRepo, nil, mCache, logging.Discard()).Update(ctx, "u1", "t1", TaskInput{Title: "Renamed"})

		require.NoError(t, err)
		assert.Equal(t, "Renamed", task.Title)
		mRepo.AssertExpectations(t)
		mCache.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockTaskRepository)
		mRepo.On("FindByID", ctx, "u1", "t9").Return(nil, sql.ErrNoRows)

		_, err := NewTaskService(mRepo, nil, nil, logging.Discard()).Update(ctx, "u1", "t9", TaskInput{Title: "x"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestTaskService_Delete(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockTaskRepository)
	mCache := new(cacheMocks.MockCache)
	svc := NewTaskService(mRepo, nil, mCache, logging.Discard())

	mRepo.On("Delete", ctx, "u1", "t1").Return(nil)
	mRepo.On("Delete", ctx, "u1", "t2").Return(sql.ErrNoRows)
	mCache.On("Delete", ctx, "tasks:u1").Return(nil).Once()

	assert.NoError(t, svc.Delete(ctx, "u1", "t1"))
	assert.ErrorIs(t, svc.Delete(ctx, "u1", "t2"), ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "u1", ""), ErrIDRequired)
	mCache.AssertExpectations(t)
}
