package mocks

import (
	"context"

	"adaptagent/internal/model"
	"adaptagent/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) Create(ctx context.Context, ownerID string, in service.ProjectInput) (*model.Project, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectService) Get(ctx context.Context, ownerID string, id string) (*model.Project, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectService) List(ctx context.Context, ownerID string, limit int, offset int) (*service.ListResult[model.Project], error) {
	args := m.Called(ctx, ownerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.Project]), args.Error(1)
}

func (m *MockProjectService) Update(ctx context.Context, ownerID string, id string, in service.ProjectInput) (*model.Project, error) {
	args := m.Called(ctx, ownerID, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectService) Delete(ctx context.Context, ownerID string, id string) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}
