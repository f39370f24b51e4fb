package mocks

import (
	"context"

	"adaptagent/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockAgentService struct {
	mock.Mock
}

func (m *MockAgentService) AnalyzeTask(ctx context.Context, in service.AnalyzeTaskInput) (*service.TaskAnalysis, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TaskAnalysis), args.Error(1)
}

func (m *MockAgentService) GenerateCode(ctx context.Context, in service.GenerateCodeInput) (*service.GeneratedCode, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GeneratedCode), args.Error(1)
}

func (m *MockAgentService) AnswerQuestion(ctx context.Context, in service.QuestionInput) (*service.Answer, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Answer), args.Error(1)
}

func (m *MockAgentService) Query(ctx context.Context, ownerID string, in service.QueryInput) (*service.Answer, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Answer), args.Error(1)
}

func (m *MockAgentService) AnalyzeProject(ctx context.Context, ownerID string, projectID string) (*service.ProjectAnalysis, error) {
	args := m.Called(ctx, ownerID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProjectAnalysis), args.Error(1)
}
