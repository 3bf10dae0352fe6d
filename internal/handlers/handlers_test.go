package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/s0-shady/Task-Manager-django/internal/handlers"
	"github.com/s0-shady/Task-Manager-django/internal/handlers/dto"
	"github.com/s0-shady/Task-Manager-django/internal/logger"
	"github.com/s0-shady/Task-Manager-django/internal/models"
	"github.com/s0-shady/Task-Manager-django/internal/service"
)

func TestMain(m *testing.M) {
	logger.Init(true)
	m.Run()
}

// MockTaskService - мок сервиса задач
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) List(ctx context.Context) (*service.TaskList, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TaskList), args.Error(1)
}

func (m *MockTaskService) GetWithAttachments(ctx context.Context, id int64) (*models.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) Create(ctx context.Context, title, content string, priorityID int64, dateAdded time.Time) (*models.Task, error) {
	args := m.Called(ctx, title, content, priorityID, dateAdded)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) Update(ctx context.Context, id int64, options ...models.TaskOption) (*models.Task, error) {
	args := m.Called(ctx, id, options)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) Complete(ctx context.Context, id int64) (*models.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) Restore(ctx context.Context, id int64) (*models.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskService) Sorted(ctx context.Context, completed bool, sortBy, sortOrder string) (*service.SortedTasks, error) {
	args := m.Called(ctx, completed, sortBy, sortOrder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SortedTasks), args.Error(1)
}

var _ handlers.TaskService = (*MockTaskService)(nil)

// MockPriorityService - мок сервиса приоритетов
type MockPriorityService struct {
	mock.Mock
}

func (m *MockPriorityService) List(ctx context.Context) ([]*models.Priority, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Priority), args.Error(1)
}

func (m *MockPriorityService) Get(ctx context.Context, id int64) (*models.Priority, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Priority), args.Error(1)
}

func (m *MockPriorityService) Create(ctx context.Context, name string, weight int) (*models.Priority, error) {
	args := m.Called(ctx, name, weight)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Priority), args.Error(1)
}

func (m *MockPriorityService) Update(ctx context.Context, id int64, name string, weight int) (*models.Priority, error) {
	args := m.Called(ctx, id, name, weight)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Priority), args.Error(1)
}

func (m *MockPriorityService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ handlers.PriorityService = (*MockPriorityService)(nil)

// MockAttachmentService - мок сервиса вложений
type MockAttachmentService struct {
	mock.Mock
}

func (m *MockAttachmentService) ListForTask(ctx context.Context, taskID int64) ([]models.Attachment, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Attachment), args.Error(1)
}

func (m *MockAttachmentService) Add(ctx context.Context, taskID int64, data []byte, filename string) (*models.Attachment, error) {
	args := m.Called(ctx, taskID, data, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Attachment), args.Error(1)
}

func (m *MockAttachmentService) Open(ctx context.Context, id int64) (*models.Attachment, []byte, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.Attachment), args.Get(1).([]byte), args.Error(2)
}

func (m *MockAttachmentService) Delete(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

var _ handlers.AttachmentService = (*MockAttachmentService)(nil)

// withURLParam подставляет параметр пути chi в запрос
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// TestTaskHandler_GetTaskList тестирует выдачу двух списков задач
func TestTaskHandler_GetTaskList(t *testing.T) {
	completionDate := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	mockService := new(MockTaskService)
	mockService.On("List", mock.Anything).Return(&service.TaskList{
		Pending: []*models.Task{
			{ID: 1, Title: "В работе", DateAdded: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
				Priority: &models.Priority{ID: 1, Name: "Высокий", Weight: 10}},
		},
		Completed: []*models.Task{
			{ID: 2, Title: "Готова", DateAdded: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
				CompletionDate: &completionDate},
		},
	}, nil)

	handler := handlers.NewTaskHandler(mockService)

	req := httptest.NewRequest("GET", "/tasks", nil)
	w := httptest.NewRecorder()
	handler.GetTaskList(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.TaskListResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	require.Len(t, response.UncompletedTasks, 1)
	require.Len(t, response.CompletedTasks, 1)
	assert.Equal(t, "В работе", response.UncompletedTasks[0].Title)
	assert.False(t, response.UncompletedTasks[0].IsCompleted)
	assert.True(t, response.CompletedTasks[0].IsCompleted)
	require.NotNil(t, response.CompletedTasks[0].CompletionDate)
	assert.Equal(t, "2026-08-20", *response.CompletedTasks[0].CompletionDate)

	mockService.AssertExpectations(t)
}

// TestTaskHandler_GetTaskByID тестирует выдачу задачи
func TestTaskHandler_GetTaskByID(t *testing.T) {
	tests := []struct {
		name           string
		taskID         string
		setupMock      func(*MockTaskService)
		expectedStatus int
	}{
		{
			name:   "success",
			taskID: "5",
			setupMock: func(m *MockTaskService) {
				m.On("GetWithAttachments", mock.Anything, int64(5)).
					Return(&models.Task{
						ID:        5,
						Title:     "С вложением",
						DateAdded: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
						Attachments: []models.Attachment{
							{ID: 1, TaskID: 5, Filename: "a.txt"},
						},
					}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "error - invalid id",
			taskID:         "abc",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "error - task not found",
			taskID: "5",
			setupMock: func(m *MockTaskService) {
				m.On("GetWithAttachments", mock.Anything, int64(5)).
					Return(nil, service.NewNotFound("задача", 5))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:   "error - service error",
			taskID: "5",
			setupMock: func(m *MockTaskService) {
				m.On("GetWithAttachments", mock.Anything, int64(5)).
					Return(nil, errors.New("internal error"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTaskService)
			tt.setupMock(mockService)

			handler := handlers.NewTaskHandler(mockService)

			req := withURLParam(httptest.NewRequest("GET", "/tasks/"+tt.taskID, nil), "id", tt.taskID)
			w := httptest.NewRecorder()
			handler.GetTaskByID(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusOK {
				var response dto.TaskResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
				assert.Equal(t, int64(5), response.ID)
				assert.Len(t, response.Attachments, 1)
			}

			mockService.AssertExpectations(t)
		})
	}
}

// TestTaskHandler_PostTask тестирует создание задачи
func TestTaskHandler_PostTask(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    string
		contentType    string
		setupMock      func(*MockTaskService)
		expectedStatus int
	}{
		{
			name:        "success - task created",
			requestBody: `{"title": "Купить молоко", "content": "2 литра", "priority_id": 1}`,
			contentType: "application/json",
			setupMock: func(m *MockTaskService) {
				m.On("Create", mock.Anything, "Купить молоко", "2 литра", int64(1), time.Time{}).
					Return(&models.Task{
						ID:         1,
						Title:      "Купить молоко",
						Content:    "2 литра",
						DateAdded:  models.Today(),
						PriorityID: 1,
						Priority:   &models.Priority{ID: 1, Name: "Высокий", Weight: 10},
					}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "error - wrong content type",
			requestBody:    `{}`,
			contentType:    "text/plain",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusUnsupportedMediaType,
		},
		{
			name:           "error - invalid JSON",
			requestBody:    `{invalid}`,
			contentType:    "application/json",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "error - empty title",
			requestBody:    `{"title": "", "priority_id": 1}`,
			contentType:    "application/json",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "error - missing priority",
			requestBody:    `{"title": "Без приоритета"}`,
			contentType:    "application/json",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "error - malformed date",
			requestBody:    `{"title": "Задача", "priority_id": 1, "date_added": "20-08-2026"}`,
			contentType:    "application/json",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "error - priority does not exist",
			requestBody: `{"title": "Задача", "priority_id": 99}`,
			contentType: "application/json",
			setupMock: func(m *MockTaskService) {
				m.On("Create", mock.Anything, "Задача", "", int64(99), time.Time{}).
					Return(nil, service.NewValidationError("priority_id", "приоритет не существует"))
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTaskService)
			tt.setupMock(mockService)

			handler := handlers.NewTaskHandler(mockService)

			req := httptest.NewRequest("POST", "/tasks", bytes.NewBufferString(tt.requestBody))
			req.Header.Set("Content-Type", tt.contentType)
			w := httptest.NewRecorder()
			handler.PostTask(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

// TestTaskHandler_CompleteTask тестирует завершение задачи
func TestTaskHandler_CompleteTask(t *testing.T) {
	completionDate := models.Today()

	t.Run("success", func(t *testing.T) {
		mockService := new(MockTaskService)
		mockService.On("Complete", mock.Anything, int64(7)).
			Return(&models.Task{
				ID:             7,
				Title:          "Сдать отчёт",
				DateAdded:      time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
				CompletionDate: &completionDate,
			}, nil)

		handler := handlers.NewTaskHandler(mockService)

		req := withURLParam(httptest.NewRequest("POST", "/tasks/7/complete", nil), "id", "7")
		w := httptest.NewRecorder()
		handler.CompleteTask(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.TaskResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.True(t, response.IsCompleted)
		mockService.AssertExpectations(t)
	})

	t.Run("error - absent or already completed", func(t *testing.T) {
		mockService := new(MockTaskService)
		mockService.On("Complete", mock.Anything, int64(7)).
			Return(nil, service.NewNotFound("задача", 7))

		handler := handlers.NewTaskHandler(mockService)

		req := withURLParam(httptest.NewRequest("POST", "/tasks/7/complete", nil), "id", "7")
		w := httptest.NewRecorder()
		handler.CompleteTask(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

// TestTaskHandler_RestoreTask тестирует возврат задачи в работу
func TestTaskHandler_RestoreTask(t *testing.T) {
	mockService := new(MockTaskService)
	mockService.On("Restore", mock.Anything, int64(3)).
		Return(&models.Task{
			ID:        3,
			Title:     "Вернулась",
			DateAdded: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		}, nil)

	handler := handlers.NewTaskHandler(mockService)

	req := withURLParam(httptest.NewRequest("POST", "/tasks/3/restore", nil), "id", "3")
	w := httptest.NewRecorder()
	handler.RestoreTask(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.TaskResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.False(t, response.IsCompleted)
	assert.Nil(t, response.CompletionDate)
	mockService.AssertExpectations(t)
}

// TestTaskHandler_DeleteTask тестирует мягкое удаление задачи
func TestTaskHandler_DeleteTask(t *testing.T) {
	mockService := new(MockTaskService)
	mockService.On("Delete", mock.Anything, int64(9)).Return(nil)

	handler := handlers.NewTaskHandler(mockService)

	req := withURLParam(httptest.NewRequest("DELETE", "/tasks/9", nil), "id", "9")
	w := httptest.NewRecorder()
	handler.DeleteTask(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockService.AssertExpectations(t)
}

// TestTaskHandler_GetSortedUncompleted тестирует сортированную выборку
func TestTaskHandler_GetSortedUncompleted(t *testing.T) {
	t.Run("defaults - priority desc", func(t *testing.T) {
		mockService := new(MockTaskService)
		mockService.On("Sorted", mock.Anything, false, "priority", "desc").
			Return(&service.SortedTasks{
				Tasks:     []*models.Task{{ID: 1, Title: "Важная", DateAdded: models.Today()}},
				SortBy:    "priority",
				SortOrder: "desc",
			}, nil)

		handler := handlers.NewTaskHandler(mockService)

		req := httptest.NewRequest("GET", "/api/tasks/uncompleted", nil)
		w := httptest.NewRecorder()
		handler.GetSortedUncompleted(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.SortedTasksResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "priority", response.SortBy)
		assert.Equal(t, "desc", response.SortOrder)
		require.Len(t, response.Tasks, 1)
		mockService.AssertExpectations(t)
	})

	t.Run("invalid sort_by - contract error body", func(t *testing.T) {
		mockService := new(MockTaskService)
		mockService.On("Sorted", mock.Anything, false, "weight", "asc").
			Return(nil, &service.BusinessError{
				Code:    service.CodeValidationError,
				Message: "Invalid sort_by. Allowed: ['id', 'title', 'date_added', 'priority', 'completion_date']",
			})

		handler := handlers.NewTaskHandler(mockService)

		req := httptest.NewRequest("GET", "/api/tasks/uncompleted?sort_by=weight&sort_order=asc", nil)
		w := httptest.NewRecorder()
		handler.GetSortedUncompleted(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t,
			"Invalid sort_by. Allowed: ['id', 'title', 'date_added', 'priority', 'completion_date']",
			response["error"])
		mockService.AssertExpectations(t)
	})

	t.Run("explicit params pass through", func(t *testing.T) {
		mockService := new(MockTaskService)
		mockService.On("Sorted", mock.Anything, false, "title", "asc").
			Return(&service.SortedTasks{Tasks: []*models.Task{}, SortBy: "title", SortOrder: "asc"}, nil)

		handler := handlers.NewTaskHandler(mockService)

		req := httptest.NewRequest("GET", "/api/tasks/uncompleted?sort_by=title&sort_order=asc", nil)
		w := httptest.NewRecorder()
		handler.GetSortedUncompleted(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})
}

// TestTaskHandler_GetSortedCompleted тестирует выборку завершённых
func TestTaskHandler_GetSortedCompleted(t *testing.T) {
	mockService := new(MockTaskService)
	mockService.On("Sorted", mock.Anything, true, "completion_date", "desc").
		Return(&service.SortedTasks{Tasks: []*models.Task{}, SortBy: "completion_date", SortOrder: "desc"}, nil)

	handler := handlers.NewTaskHandler(mockService)

	req := httptest.NewRequest("GET", "/api/tasks/completed", nil)
	w := httptest.NewRecorder()
	handler.GetSortedCompleted(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

// TestPriorityHandler тестирует CRUD приоритетов
func TestPriorityHandler(t *testing.T) {
	t.Run("get priorities", func(t *testing.T) {
		mockService := new(MockPriorityService)
		mockService.On("List", mock.Anything).Return([]*models.Priority{
			{ID: 1, Name: "Высокий", Weight: 10},
			{ID: 2, Name: "Низкий", Weight: 1},
		}, nil)

		handler := handlers.NewPriorityHandler(mockService)

		req := httptest.NewRequest("GET", "/priorities", nil)
		w := httptest.NewRecorder()
		handler.GetPriorities(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response []dto.PriorityResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		require.Len(t, response, 2)
		assert.Equal(t, "Высокий", response[0].Name)
	})

	t.Run("post priority", func(t *testing.T) {
		mockService := new(MockPriorityService)
		mockService.On("Create", mock.Anything, "Средний", 5).
			Return(&models.Priority{ID: 3, Name: "Средний", Weight: 5}, nil)

		handler := handlers.NewPriorityHandler(mockService)

		req := httptest.NewRequest("POST", "/priorities", strings.NewReader(`{"name": "Средний", "weight": 5}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		handler.PostPriority(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("delete priority", func(t *testing.T) {
		mockService := new(MockPriorityService)
		mockService.On("Delete", mock.Anything, int64(2)).Return(nil)

		handler := handlers.NewPriorityHandler(mockService)

		req := withURLParam(httptest.NewRequest("DELETE", "/priorities/2", nil), "id", "2")
		w := httptest.NewRecorder()
		handler.DeletePriority(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("delete priority - not found", func(t *testing.T) {
		mockService := new(MockPriorityService)
		mockService.On("Delete", mock.Anything, int64(2)).
			Return(service.NewNotFound("приоритет", 2))

		handler := handlers.NewPriorityHandler(mockService)

		req := withURLParam(httptest.NewRequest("DELETE", "/priorities/2", nil), "id", "2")
		w := httptest.NewRecorder()
		handler.DeletePriority(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

// TestAttachmentHandler_PostAttachment тестирует загрузку файла
func TestAttachmentHandler_PostAttachment(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockService := new(MockAttachmentService)
		mockService.On("Add", mock.Anything, int64(4), []byte("содержимое"), "отчёт.pdf").
			Return(&models.Attachment{ID: 12, TaskID: 4, Filename: "отчёт.pdf", File: "attachments/2026/08/29/ab12cd34_отчёт.pdf"}, nil)

		handler := handlers.NewAttachmentHandler(mockService)

		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, err := writer.CreateFormFile("file", "отчёт.pdf")
		require.NoError(t, err)
		_, err = part.Write([]byte("содержимое"))
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		req := withURLParam(httptest.NewRequest("POST", "/tasks/4/attachments", body), "id", "4")
		req.Header.Set("Content-Type", writer.FormDataContentType())
		w := httptest.NewRecorder()
		handler.PostAttachment(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.AttachmentResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, int64(12), response.ID)
		assert.Equal(t, "отчёт.pdf", response.Filename)
		mockService.AssertExpectations(t)
	})

	t.Run("error - no file field", func(t *testing.T) {
		mockService := new(MockAttachmentService)
		handler := handlers.NewAttachmentHandler(mockService)

		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		require.NoError(t, writer.WriteField("other", "x"))
		require.NoError(t, writer.Close())

		req := withURLParam(httptest.NewRequest("POST", "/tasks/4/attachments", body), "id", "4")
		req.Header.Set("Content-Type", writer.FormDataContentType())
		w := httptest.NewRecorder()
		handler.PostAttachment(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("error - task not found", func(t *testing.T) {
		mockService := new(MockAttachmentService)
		mockService.On("Add", mock.Anything, int64(4), mock.Anything, "a.txt").
			Return(nil, service.NewNotFound("задача", 4))

		handler := handlers.NewAttachmentHandler(mockService)

		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, err := writer.CreateFormFile("file", "a.txt")
		require.NoError(t, err)
		_, err = part.Write([]byte("x"))
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		req := withURLParam(httptest.NewRequest("POST", "/tasks/4/attachments", body), "id", "4")
		req.Header.Set("Content-Type", writer.FormDataContentType())
		w := httptest.NewRecorder()
		handler.PostAttachment(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

// TestAttachmentHandler_GetTaskAttachments тестирует список вложений задачи
func TestAttachmentHandler_GetTaskAttachments(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockService := new(MockAttachmentService)
		mockService.On("ListForTask", mock.Anything, int64(4)).
			Return([]models.Attachment{
				{ID: 2, TaskID: 4, Filename: "новый.txt"},
				{ID: 1, TaskID: 4, Filename: "старый.txt"},
			}, nil)

		handler := handlers.NewAttachmentHandler(mockService)

		req := withURLParam(httptest.NewRequest("GET", "/tasks/4/attachments", nil), "id", "4")
		w := httptest.NewRecorder()
		handler.GetTaskAttachments(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response []dto.AttachmentResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		require.Len(t, response, 2)
		assert.Equal(t, "новый.txt", response[0].Filename)
		mockService.AssertExpectations(t)
	})

	t.Run("error - task not found", func(t *testing.T) {
		mockService := new(MockAttachmentService)
		mockService.On("ListForTask", mock.Anything, int64(4)).
			Return(nil, service.NewNotFound("задача", 4))

		handler := handlers.NewAttachmentHandler(mockService)

		req := withURLParam(httptest.NewRequest("GET", "/tasks/4/attachments", nil), "id", "4")
		w := httptest.NewRecorder()
		handler.GetTaskAttachments(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

// TestAttachmentHandler_GetAttachmentFile тестирует выдачу файла
func TestAttachmentHandler_GetAttachmentFile(t *testing.T) {
	mockService := new(MockAttachmentService)
	mockService.On("Open", mock.Anything, int64(8)).
		Return(&models.Attachment{ID: 8, TaskID: 2, Filename: "a.txt"}, []byte("данные"), nil)

	handler := handlers.NewAttachmentHandler(mockService)

	req := withURLParam(httptest.NewRequest("GET", "/attachments/8/file", nil), "id", "8")
	w := httptest.NewRecorder()
	handler.GetAttachmentFile(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="a.txt"`)
	assert.Equal(t, "данные", w.Body.String())
	mockService.AssertExpectations(t)
}

// TestAttachmentHandler_DeleteAttachment тестирует удаление вложения
func TestAttachmentHandler_DeleteAttachment(t *testing.T) {
	t.Run("success - owning task id in response", func(t *testing.T) {
		mockService := new(MockAttachmentService)
		mockService.On("Delete", mock.Anything, int64(12)).Return(int64(4), nil)

		handler := handlers.NewAttachmentHandler(mockService)

		req := withURLParam(httptest.NewRequest("DELETE", "/attachments/12", nil), "id", "12")
		w := httptest.NewRecorder()
		handler.DeleteAttachment(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.DeleteAttachmentResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, int64(4), response.TaskID)
		mockService.AssertExpectations(t)
	})

	t.Run("error - not found", func(t *testing.T) {
		mockService := new(MockAttachmentService)
		mockService.On("Delete", mock.Anything, int64(12)).
			Return(int64(0), service.NewNotFound("вложение", 12))

		handler := handlers.NewAttachmentHandler(mockService)

		req := withURLParam(httptest.NewRequest("DELETE", "/attachments/12", nil), "id", "12")
		w := httptest.NewRecorder()
		handler.DeleteAttachment(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
