package mocks

import (
	"context"
	"io"

	"adaptagent/internal/model"
	"adaptagent/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockAttachmentService struct {
	mock.Mock
}

func (m *MockAttachmentService) Upload(ctx context.Context, ownerID string, r io.Reader, originalFilename string, size int64) (*model.Attachment, error) {
	args := m.Called(ctx, ownerID, r, originalFilename, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attachment), args.Error(1)
}

func (m *MockAttachmentService) List(ctx context.Context, ownerID string, limit int, offset int) (*service.ListResult[model.Attachment], error) {
	args := m.Called(ctx, ownerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.Attachment]), args.Error(1)
}

func (m *MockAttachmentService) Get(ctx context.Context, ownerID string, id string) (*service.AttachmentView, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AttachmentView), args.Error(1)
}

func (m *MockAttachmentService) Delete(ctx context.Context, ownerID string, id string) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}
