package mocks

import (
	"context"

	"adaptagent/internal/model"
	"adaptagent/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockKnowledgeRepository struct {
	mock.Mock
}

func (m *MockKnowledgeRepository) Create(ctx context.Context, k *model.Knowledge) (*model.Knowledge, error) {
	args := m.Called(ctx, k)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Knowledge), args.Error(1)
}

func (m *MockKnowledgeRepository) FindByID(ctx context.Context, ownerID, id string) (*model.Knowledge, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Knowledge), args.Error(1)
}

func (m *MockKnowledgeRepository) List(ctx context.Context, ownerID string, f repository.KnowledgeFilter, pq repository.PageQuery) (*repository.PageResult[model.Knowledge], error) {
	args := m.Called(ctx, ownerID, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Knowledge]), args.Error(1)
}

func (m *MockKnowledgeRepository) Update(ctx context.Context, k *model.Knowledge) (*model.Knowledge, error) {
	args := m.Called(ctx, k)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Knowledge), args.Error(1)
}

func (m *MockKnowledgeRepository) Delete(ctx context.Context, ownerID, id string) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}
