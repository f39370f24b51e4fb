package mocks

import (
	"context"

	"adaptagent/internal/model"
	"adaptagent/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockKnowledgeService struct {
	mock.Mock
}

func (m *MockKnowledgeService) Create(ctx context.Context, ownerID string, in service.KnowledgeInput) (*model.Knowledge, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Knowledge), args.Error(1)
}

func (m *MockKnowledgeService) Get(ctx context.Context, ownerID string, id string) (*model.Knowledge, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Knowledge), args.Error(1)
}

func (m *MockKnowledgeService) List(ctx context.Context, ownerID string, q service.KnowledgeQuery) (*service.ListResult[model.Knowledge], error) {
	args := m.Called(ctx, ownerID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.Knowledge]), args.Error(1)
}

func (m *MockKnowledgeService) Update(ctx context.Context, ownerID string, id string, in service.KnowledgeInput) (*model.Knowledge, error) {
	args := m.Called(ctx, ownerID, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Knowledge), args.Error(1)
}

func (m *MockKnowledgeService) Delete(ctx context.Context, ownerID string, id string) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}
