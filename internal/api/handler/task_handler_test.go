package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/taskforge/task-api/internal/api/middleware"
	"github.com/taskforge/task-api/internal/core/domain"
	"github.com/taskforge/task-api/internal/core/ports"
)

type stubTaskService struct {
	createFn func(ctx context.Context, input ports.CreateTaskInput) (*domain.Task, error)
	getFn    func(ctx context.Context, id, ownerID string) (*domain.Task, error)
	listFn   func(ctx context.Context, input ports.ListTasksInput) (*ports.ListTasksResult, error)
	updateFn func(ctx context.Context, id, ownerID string, status domain.TaskStatus) (*domain.Task, error)
	deleteFn func(ctx context.Context, id, ownerID string) error
}

func (s *stubTaskService) CreateTask(ctx context.Context, input ports.CreateTaskInput) (*domain.Task, error) {
	return s.createFn(ctx, input)
}

func (s *stubTaskService) GetTask(ctx context.Context, id, ownerID string) (*domain.Task, error) {
	return s.getFn(ctx, id, ownerID)
}

func (s *stubTaskService) ListTasks(ctx context.Context, input ports.ListTasksInput) (*ports.ListTasksResult, error) {
	return s.listFn(ctx, input)
}

func (s *stubTaskService) UpdateTaskStatus(ctx context.Context, id, ownerID string, status domain.TaskStatus) (*domain.Task, error) {
	return s.updateFn(ctx, id, ownerID, status)
}

func (s *stubTaskService) DeleteTask(ctx context.Context, id, ownerID string) error {
	return s.deleteFn(ctx, id, ownerID)
}

func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder) echo.Context {
	c := e.NewContext(req, rec)
	c.Set(middleware.UserContextKey, &domain.User{ID: "id-alice", Username: "alice"})
	return c
}

func TestTaskHandler_Create(t *testing.T) {
	e := newEcho()
	stub := &stubTaskService{
		createFn: func(ctx context.Context, input ports.CreateTaskInput) (*domain.Task, error) {
			if input.OwnerID != "id-alice" {
				t.Fatalf("owner not taken from context: %q", input.OwnerID)
			}
			return &domain.Task{ID: "t1", OwnerID: input.OwnerID, Title: input.Title, Description: input.Description, Status: domain.StatusOpen}, nil
		},
	}
	handler := NewTaskHandler(stub)

	// A status field in the payload is ignored: creation always yields open.
	body := strings.NewReader(`{"title":"buy milk","description":"2%","status":"done"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/tasks", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["status"] != "open" {
		t.Fatalf("expected status open, got %v", resp["status"])
	}
	if resp["title"] != "buy milk" {
		t.Fatalf("unexpected title: %v", resp["title"])
	}
}

func TestTaskHandler_Create_NoUserInContext(t *testing.T) {
	e := newEcho()
	handler := NewTaskHandler(&stubTaskService{})

	req := httptest.NewRequest(http.MethodPost, "/v1/tasks", strings.NewReader(`{"title":"x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 error, got %v", err)
	}
}

func TestTaskHandler_List_PassesFilter(t *testing.T) {
	e := newEcho()
	stub := &stubTaskService{
		listFn: func(ctx context.Context, input ports.ListTasksInput) (*ports.ListTasksResult, error) {
			if input.OwnerID != "id-alice" || input.Status != "open" || input.Search != "milk" {
				t.Fatalf("unexpected filter: %+v", input)
			}
			return &ports.ListTasksResult{
				Items: []*domain.Task{{ID: "t1", Title: "buy milk", Status: domain.StatusOpen}},
				Total: 1, Page: 1, Limit: 50, TotalPages: 1,
			}, nil
		},
	}
	handler := NewTaskHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/tasks?status=open&search=milk", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec)

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	items, ok := resp["items"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("expected one item, got %v", resp["items"])
	}
}

func TestTaskHandler_List_UnknownStatusFilter(t *testing.T) {
	e := newEcho()
	handler := NewTaskHandler(&stubTaskService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/tasks?status=bogus", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec)

	err := handler.List(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 error, got %v", err)
	}
}

func TestTaskHandler_Get_NotFound(t *testing.T) {
	e := newEcho()
	stub := &stubTaskService{
		getFn: func(ctx context.Context, id, ownerID string) (*domain.Task, error) {
			return nil, domain.ErrTaskNotFound
		},
	}
	handler := NewTaskHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/tasks/t404", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec)
	c.SetParamNames("id")
	c.SetParamValues("t404")

	err := handler.Get(c)
	if !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound to propagate, got %v", err)
	}
}

func TestTaskHandler_UpdateStatus(t *testing.T) {
	e := newEcho()
	stub := &stubTaskService{
		updateFn: func(ctx context.Context, id, ownerID string, status domain.TaskStatus) (*domain.Task, error) {
			if id != "t1" || ownerID != "id-alice" || status != domain.StatusDone {
				t.Fatalf("unexpected args: %s %s %s", id, ownerID, status)
			}
			return &domain.Task{ID: id, OwnerID: ownerID, Status: status}, nil
		},
	}
	handler := NewTaskHandler(stub)

	req := httptest.NewRequest(http.MethodPatch, "/v1/tasks/t1/status", strings.NewReader(`{"status":"done"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec)
	c.SetParamNames("id")
	c.SetParamValues("t1")

	if err := handler.UpdateStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestTaskHandler_UpdateStatus_UnknownValue(t *testing.T) {
	e := newEcho()
	handler := NewTaskHandler(&stubTaskService{})

	req := httptest.NewRequest(http.MethodPatch, "/v1/tasks/t1/status", strings.NewReader(`{"status":"archived"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec)
	c.SetParamNames("id")
	c.SetParamValues("t1")

	err := handler.UpdateStatus(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 error, got %v", err)
	}
}

func TestTaskHandler_Delete(t *testing.T) {
	e := newEcho()
	called := false
	stub := &stubTaskService{
		deleteFn: func(ctx context.Context, id, ownerID string) error {
			called = true
			if id != "t1" || ownerID != "id-alice" {
				t.Fatalf("unexpected args: %s %s", id, ownerID)
			}
			return nil
		},
	}
	handler := NewTaskHandler(stub)

	req := httptest.NewRequest(http.MethodDelete, "/v1/tasks/t1", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec)
	c.SetParamNames("id")
	c.SetParamValues("t1")

	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("service not called")
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}
