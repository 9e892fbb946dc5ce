package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pysugar/task-nexus/internal/adapters"
	"github.com/pysugar/task-nexus/internal/ratelimit"
	"github.com/pysugar/task-nexus/internal/unified"
)

// defaultService is assumed whenever the caller omits the service selector.
const defaultService = string(unified.ServiceTodoist)

// resolveAdapter runs the shared request gate: user id, rate limit, vendor
// token, then service resolution through the registry. It writes the error
// response itself and reports ok=false when the request must not proceed.
func resolveAdapter(w http.ResponseWriter, r *http.Request, reg *adapters.Registry, limiter *ratelimit.Limiter, userID, service string) (adapters.Adapter, string, bool) {
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required", "")
		return nil, "", false
	}
	if !limiter.Allow(userID) {
		writeRateLimited(w, limiter.RetryAfter())
		return nil, "", false
	}
	apiToken := r.Header.Get(VendorTokenHeader)
	if apiToken == "" {
		writeError(w, http.StatusUnauthorized, "Authentication token required", "")
		return nil, "", false
	}
	if service == "" {
		service = defaultService
	}
	st, ok := unified.ParseServiceType(service)
	if !ok {
		writeError(w, http.StatusBadRequest, "Unsupported service: "+service, "")
		return nil, "", false
	}
	adapter, err := reg.New(r.Context(), st, apiToken)
	if err != nil {
		respondError(w, r, err, "Internal server error")
		return nil, "", false
	}
	return adapter, service, true
}

// externalID strips the service prefix a unified task id carries so the
// vendor sees its own identifier again.
func externalID(id string) string {
	return strings.TrimPrefix(id, "todoist_")
}

// ListTasksHandler serves GET /tasks.
func ListTasksHandler(reg *adapters.Registry, limiter *ratelimit.Limiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		adapter, service, ok := resolveAdapter(w, r, reg, limiter, q.Get("user_id"), q.Get("service"))
		if !ok {
			return
		}
		tasks, err := adapter.GetTasks(r.Context())
		if err != nil {
			respondError(w, r, err, "Internal server error")
			return
		}
		total := len(tasks)
		writeData(w, http.StatusOK, service, tasks, &total)
	}
}

type createTaskRequest struct {
	UserID  string `json:"user_id"`
	Service string `json:"service"`
	unified.TaskInput
}

// CreateTaskHandler serves POST /tasks.
func CreateTaskHandler(reg *adapters.Registry, limiter *ratelimit.Limiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", "")
			return
		}
		adapter, service, ok := resolveAdapter(w, r, reg, limiter, req.UserID, req.Service)
		if !ok {
			return
		}
		if req.Title == "" {
			writeError(w, http.StatusBadRequest, "title is required", "")
			return
		}
		task, err := adapter.CreateTask(r.Context(), req.TaskInput)
		if err != nil {
			respondError(w, r, err, "Internal server error")
			return
		}
		writeData(w, http.StatusCreated, service, task, nil)
	}
}

// GetTaskHandler serves GET /tasks/{id}.
func GetTaskHandler(reg *adapters.Registry, limiter *ratelimit.Limiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		adapter, service, ok := resolveAdapter(w, r, reg, limiter, q.Get("user_id"), q.Get("service"))
		if !ok {
			return
		}
		task, err := adapter.GetTask(r.Context(), externalID(chi.URLParam(r, "id")))
		if err != nil {
			respondError(w, r, err, "Internal server error")
			return
		}
		writeData(w, http.StatusOK, service, task, nil)
	}
}

type updateTaskRequest struct {
	UserID  string `json:"user_id"`
	Service string `json:"service"`
	unified.TaskUpdate
}

// UpdateTaskHandler serves PUT /tasks/{id}.
func UpdateTaskHandler(reg *adapters.Registry, limiter *ratelimit.Limiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", "")
			return
		}
		adapter, service, ok := resolveAdapter(w, r, reg, limiter, req.UserID, req.Service)
		if !ok {
			return
		}
		task, err := adapter.UpdateTask(r.Context(), externalID(chi.URLParam(r, "id")), req.TaskUpdate)
		if err != nil {
			respondError(w, r, err, "Internal server error")
			return
		}
		writeData(w, http.StatusOK, service, task, nil)
	}
}

// DeleteTaskHandler serves DELETE /tasks/{id}.
func DeleteTaskHandler(reg *adapters.Registry, limiter *ratelimit.Limiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		adapter, service, ok := resolveAdapter(w, r, reg, limiter, q.Get("user_id"), q.Get("service"))
		if !ok {
			return
		}
		if err := adapter.DeleteTask(r.Context(), externalID(chi.URLParam(r, "id"))); err != nil {
			respondError(w, r, err, "Internal server error")
			return
		}
		writeMessage(w, http.StatusOK, service, "Task deleted successfully")
	}
}

type completeTaskRequest struct {
	UserID  string `json:"user_id"`
	Service string `json:"service"`
}

// CompleteTaskHandler serves POST /tasks/{id}/complete.
func CompleteTaskHandler(reg *adapters.Registry, limiter *ratelimit.Limiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req completeTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", "")
			return
		}
		adapter, service, ok := resolveAdapter(w, r, reg, limiter, req.UserID, req.Service)
		if !ok {
			return
		}
		if err := adapter.CompleteTask(r.Context(), externalID(chi.URLParam(r, "id"))); err != nil {
			respondError(w, r, err, "Internal server error")
			return
		}
		writeMessage(w, http.StatusOK, service, "Task completed successfully")
	}
}

// ListProjectsHandler serves GET /projects.
func ListProjectsHandler(reg *adapters.Registry, limiter *ratelimit.Limiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		adapter, service, ok := resolveAdapter(w, r, reg, limiter, q.Get("user_id"), q.Get("service"))
		if !ok {
			return
		}
		projects, err := adapter.GetProjects(r.Context())
		if err != nil {
			respondError(w, r, err, "Internal server error")
			return
		}
		total := len(projects)
		writeData(w, http.StatusOK, service, projects, &total)
	}
}
