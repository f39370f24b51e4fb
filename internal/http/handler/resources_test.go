package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"adaptagent/internal/model"
	"adaptagent/internal/service"
	serviceMocks "adaptagent/internal/service/mocks"
)

func TestListProjects(t *testing.T) {
	mockSvc := new(serviceMocks.MockProjectService)
	app := newTestApp(testUserID)
	app.Get("/projects", ListProjects(mockSvc))

	t.Run("success", func(t *testing.T) {
		expectedRes := &service.ListResult[model.Project]{
			Items: []model.Project{{ID: uuid.New().String(), Name: "Apollo"}},
			Total: 1,
			Limit: 10,
		}
		mockSvc.On("List", mock.Anything, testUserID, 10, 0).Return(expectedRes, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/projects?limit=10&offset=0", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result map[string]any
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result["data"], 1)
		assert.Equal(t, float64(1), result["total"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/projects?limit=abc", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_LIMIT", decodeError(t, resp).Error.Code)
	})

	t.Run("invalid offset", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/projects?offset=x", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_OFFSET", decodeError(t, resp).Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, testUserID, 10, 0).Return(nil, errors.New("service error")).Once()

		req := httptest.NewRequest(http.MethodGet, "/projects", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestProjectCRUD(t *testing.T) {
	mockSvc := new(serviceMocks.MockProjectService)
	app := newTestApp(testUserID)
	app.Post("/projects", CreateProject(mockSvc))
	app.Get("/projects/:id", GetProject(mockSvc))
	app.Put("/projects/:id", UpdateProject(mockSvc))
	app.Delete("/projects/:id", DeleteProject(mockSvc))

	id := uuid.New().String()

	t.Run("create", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, testUserID, service.ProjectInput{Name: "Apollo"}).
			Return(&model.Project{ID: id, Name: "Apollo"}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/projects", map[string]string{"name": "Apollo"}))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var p model.Project
		json.NewDecoder(resp.Body).Decode(&p)
		assert.Equal(t, id, p.ID)
	})

	t.Run("get", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, testUserID, id).Return(&model.Project{ID: id}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/projects/"+id, nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("get not found", func(t *testing.T) {
		other := uuid.New().String()
		mockSvc.On("Get", mock.Anything, testUserID, other).Return(nil, service.ErrProjectNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/projects/"+other, nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		res := decodeError(t, resp)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
		assert.Equal(t, "project not found", res.Error.Message)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/projects/invalid-uuid", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)
	})

	t.Run("update", func(t *testing.T) {
		mockSvc.On("Update", mock.Anything, testUserID, id, service.ProjectInput{Name: "Artemis", Description: "again"}).
			Return(&model.Project{ID: id, Name: "Artemis"}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPut, "/projects/"+id, map[string]string{"name": "Artemis", "description": "again"}))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("delete", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, testUserID, id).Return(nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/projects/"+id, nil))

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	mockSvc.AssertExpectations(t)
}

func TestTasks(t *testing.T) {
	mockSvc := new(serviceMocks.MockTaskService)
	app := newTestApp(testUserID)
	app.Post("/tasks", CreateTask(mockSvc))
	app.Get("/tasks", ListTasks(mockSvc))
	app.Get("/tasks/:id", GetTask(mockSvc))
	app.Put("/tasks/:id", UpdateTask(mockSvc))
	app.Delete("/tasks/:id", DeleteTask(mockSvc))

	projectID := uuid.New().String()
	id := uuid.New().String()

	t.Run("list passes filters", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, testUserID, service.TaskQuery{ProjectID: projectID, Status: "completed", Limit: 5, Offset: 10}).
			Return(&service.ListResult[model.Task]{Items: []model.Task{}}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/tasks?project_id="+projectID+"&status=completed&limit=5&offset=10", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("create with project", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, testUserID, mock.MatchedBy(func(in service.TaskInput) bool {
			return in.Title == "Ship" && in.ProjectID != nil && *in.ProjectID == projectID
		})).Return(&model.Task{ID: id, Status: model.TaskPending}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/tasks", map[string]any{"title": "Ship", "project_id": projectID}))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("create in foreign project", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, testUserID, mock.Anything).Return(nil, service.ErrProjectNotFound).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/tasks", map[string]any{"title": "Ship", "project_id": projectID}))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("get", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, testUserID, id).Return(&model.Task{ID: id}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/tasks/"+id, nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("update", func(t *testing.T) {
		mockSvc.On("Update", mock.Anything, testUserID, id, mock.MatchedBy(func(in service.TaskInput) bool {
			return in.Status == "in_progress"
		})).Return(&model.Task{ID: id, Status: "in_progress"}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPut, "/tasks/"+id, map[string]any{"title": "Ship", "status": "in_progress"}))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("delete not found", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, testUserID, id).Return(service.ErrNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/tasks/"+id, nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	mockSvc.AssertExpectations(t)
}

func TestKnowledge(t *testing.T) {
	mockSvc := new(serviceMocks.MockKnowledgeService)
	mockTags := new(serviceMocks.MockTagService)
	app := newTestApp(testUserID)
	app.Post("/knowledge", CreateKnowledge(mockSvc))
	app.Get("/knowledge", ListKnowledge(mockSvc))
	app.Get("/knowledge/:id", GetKnowledge(mockSvc))
	app.Put("/knowledge/:id", UpdateKnowledge(mockSvc))
	app.Delete("/knowledge/:id", DeleteKnowledge(mockSvc))
	app.Get("/tags", ListTags(mockTags))

	id := uuid.New().String()

	t.Run("create", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, testUserID, service.KnowledgeInput{Title: "Style", Content: "gofmt", Tags: []string{"Go"}}).
			Return(&model.Knowledge{ID: id, Tags: []string{"go"}}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/knowledge", map[string]any{"title": "Style", "content": "gofmt", "tags": []string{"Go"}}))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("list by tag", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, testUserID, service.KnowledgeQuery{Tag: "go", Limit: 10}).
			Return(&service.ListResult[model.Knowledge]{Items: []model.Knowledge{{ID: id}}, Total: 1}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/knowledge?tag=go", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("get, update and delete", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, testUserID, id).Return(&model.Knowledge{ID: id}, nil).Once()
		mockSvc.On("Update", mock.Anything, testUserID, id, mock.Anything).Return(&model.Knowledge{ID: id}, nil).Once()
		mockSvc.On("Delete", mock.Anything, testUserID, id).Return(nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/knowledge/"+id, nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = app.Test(jsonRequest(http.MethodPut, "/knowledge/"+id, map[string]any{"content": "x"}))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = app.Test(httptest.NewRequest(http.MethodDelete, "/knowledge/"+id, nil))
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("tags", func(t *testing.T) {
		mockTags.On("List", mock.Anything, testUserID).Return([]model.Tag{{ID: "t1", Name: "go", Count: 3}}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/tags", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body struct {
			Data []model.Tag `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, 3, body.Data[0].Count)
	})

	t.Run("no tags renders an empty list", func(t *testing.T) {
		mockTags.On("List", mock.Anything, testUserID).Return(nil, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/tags", nil))

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, []any{}, body["data"])
	})

	mockSvc.AssertExpectations(t)
	mockTags.AssertExpectations(t)
}
