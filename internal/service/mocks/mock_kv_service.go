package mocks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockKVService struct {
	mock.Mock
}

func (m *MockKVService) Get(ctx context.Context, userID string, key string) (json.RawMessage, error) {
	args := m.Called(ctx, userID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockKVService) Set(ctx context.Context, userID string, key string, value json.RawMessage, ttl time.Duration) error {
	args := m.Called(ctx, userID, key, value, ttl)
	return args.Error(0)
}

func (m *MockKVService) Delete(ctx context.Context, userID string, key string) error {
	args := m.Called(ctx, userID, key)
	return args.Error(0)
}
