package mocks

import (
	"context"

	"adaptagent/internal/model"
	"adaptagent/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) Create(ctx context.Context, ownerID string, in service.TaskInput) (*model.Task, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) Get(ctx context.Context, ownerID string, id string) (*model.Task, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) List(ctx context.Context, ownerID string, q service.TaskQuery) (*service.ListResult[model.Task], error) {
	args := m.Called(ctx, ownerID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.Task]), args.Error(1)
}

func (m *MockTaskService) Update(ctx context.Context, ownerID string, id string, in service.TaskInput) (*model.Task, error) {
	args := m.Called(ctx, ownerID, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, ownerID string, id string) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}
