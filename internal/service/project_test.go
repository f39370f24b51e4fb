package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cacheMocks "adaptagent/internal/cache/mocks"
	"adaptagent/internal/logging"
	"adaptagent/internal/model"
	"adaptagent/internal/repository"
	repoMocks "adaptagent/internal/repository/mocks"
)

func TestProjectService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockProjectRepository)
		mRepo.On("Create", ctx, mock.MatchedBy(func(p *model.Project) bool {
			return p.ID != "" && p.OwnerID == "u1" && p.Name == "Apollo" && !p.CreatedAt.IsZero()
		})).Return(&model.Project{ID: "p1", Name: "Apollo"}, nil)

		p, err := NewProjectService(mRepo, nil, logging.Discard()).Create(ctx, "u1", ProjectInput{Name: "  Apollo "})

		require.NoError(t, err)
		assert.Equal(t, "p1", p.ID)
		mRepo.AssertExpectations(t)
	})

	t.Run("blank name", func(t *testing.T) {
		_, err := NewProjectService(new(repoMocks.MockProjectRepository), nil, logging.Discard()).Create(ctx, "u1", ProjectInput{Name: "   "})

		var ve ValidationErrors
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "name", ve[0].Field)
	})
}

func TestProjectService_Get(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockProjectRepository)
	svc := NewProjectService(mRepo, nil, logging.Discard())

	mRepo.On("FindByID", ctx, "u1", "p1").Return(&model.Project{ID: "p1"}, nil)
	mRepo.On("FindByID", ctx, "u2", "p1").Return(nil, sql.ErrNoRows)
	mRepo.On("FindByID", ctx, "u1", "boom").Return(nil, errors.New("db fail"))

	p, err := svc.Get(ctx, "u1", "p1")
	assert.NoError(t, err)
	assert.Equal(t, "p1", p.ID)

	_, err = svc.Get(ctx, "u2", "p1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "project not found")

	_, err = svc.Get(ctx, "u1", "boom")
	assert.EqualError(t, err, "db fail")

	_, err = svc.Get(ctx, "u1", "")
	assert.ErrorIs(t, err, ErrIDRequired)
}

func TestProjectService_List(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockProjectRepository)
	mRepo.On("List", ctx, "u1", repository.PageQuery{Limit: MaxLimit, Offset: 20}).
		Return(&repository.PageResult[model.Project]{Items: []model.Project{{ID: "p1"}}, Total: 21}, nil)

	res, err := NewProjectService(mRepo, nil, logging.Discard()).List(ctx, "u1", 1000, 20)

	require.NoError(t, err)
	assert.Equal(t, 21, res.Total)
	assert.Equal(t, MaxLimit, res.Limit)
	assert.Equal(t, 20, res.Offset)
	mRepo.AssertExpectations(t)
}

func TestProjectService_Update(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockProjectRepository)
	svc := NewProjectService(mRepo, nil, logging.Discard())

	mRepo.On("Update", ctx, mock.MatchedBy(func(p *model.Project) bool { return p.ID == "p1" })).
		Return(&model.Project{ID: "p1", Name: "New"}, nil)
	mRepo.On("Update", ctx, mock.MatchedBy(func(p *model.Project) bool { return p.ID == "p2" })).
		Return(nil, sql.ErrNoRows)

	p, err := svc.Update(ctx, "u1", "p1", ProjectInput{Name: "New"})
	assert.NoError(t, err)
	assert.Equal(t, "New", p.Name)

	_, err = svc.Update(ctx, "u1", "p2", ProjectInput{Name: "New"})
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestProjectService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("drops cached tasks", func(t *testing.T) {
		mRepo := new(repoMocks.MockProjectRepository)
		mCache := new(cacheMocks.MockCache)
		mRepo.On("Delete", ctx, "u1", "p1").Return(nil)
		mCache.On("Delete", ctx, "tasks:u1").Return(nil)

		err := NewProjectService(mRepo, mCache, logging.Discard()).Delete(ctx, "u1", "p1")

		assert.NoError(t, err)
		mRepo.AssertExpectations(t)
		mCache.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockProjectRepository)
		mCache := new(cacheMocks.MockCache)
		mRepo.On("Delete", ctx, "u1", "p1").Return(sql.ErrNoRows)

		err := NewProjectService(mRepo, mCache, logging.Discard()).Delete(ctx, "u1", "p1")

		assert.ErrorIs(t, err, ErrNotFound)
		mCache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
