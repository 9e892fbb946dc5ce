package todoist

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pysugar/task-nexus/internal/adapters"
	"github.com/pysugar/task-nexus/internal/unified"
)

// fakeTodoist serves a minimal Todoist REST v2 surface for adapter tests.
type fakeTodoist struct {
	t   *testing.T
	mux *http.ServeMux
}

func newFakeTodoist(t *testing.T) (*fakeTodoist, *httptest.Server) {
	t.Helper()
	f := &fakeTodoist{t: t, mux: http.NewServeMux()}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
			f.t.Errorf("unexpected Authorization header: %q", auth)
		}
		f.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}
}

func TestGetTasks_NormalizesWithProjectNames(t *testing.T) {
	f, srv := newFakeTodoist(t)
	f.mux.Handle("/tasks", jsonHandler(http.StatusOK, `[
		{"id":"1","content":"buy milk","description":"","priority":1,"labels":["home"],"project_id":"p1","created_at":"2024-01-01T00:00:00Z"},
		{"id":"2","content":"fix bug","priority":4,"project_id":"p2","due":{"date":"2024-02-01"},"created_at":"2024-01-02T00:00:00Z"}
	]`))
	f.mux.Handle("/projects", jsonHandler(http.StatusOK, `[
		{"id":"p1","name":"Groceries"},
		{"id":"p2","name":"Work","color":"red"}
	]`))

	a := NewWithClient("test-token", srv.URL, srv.Client())
	tasks, err := a.GetTasks(context.Background())
	if err != nil {
		t.Fatalf("GetTasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].ID != "todoist_1" || tasks[0].Project.Name != "Groceries" {
		t.Fatalf("task[0] = %+v", tasks[0])
	}
	if tasks[1].Priority != unified.PriorityUrgent || tasks[1].DueDate != "2024-02-01" {
		t.Fatalf("task[1] = %+v", tasks[1])
	}
}

func TestGetTasks_EmptyListIsNotNil(t *testing.T) {
	f, srv := newFakeTodoist(t)
	f.mux.Handle("/tasks", jsonHandler(http.StatusOK, `[]`))
	f.mux.Handle("/projects", jsonHandler(http.StatusOK, `[]`))

	a := NewWithClient("test-token", srv.URL, srv.Client())
	tasks, err := a.GetTasks(context.Background())
	if err != nil {
		t.Fatalf("GetTasks: %v", err)
	}
	if tasks == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(tasks) != 0 {
		t.Fatalf("expected 0 tasks, got %d", len(tasks))
	}
}

func TestGetTasks_UpstreamErrorCarriesStatus(t *testing.T) {
	f, srv := newFakeTodoist(t)
	f.mux.Handle("/tasks", jsonHandler(http.StatusForbidden, `Forbidden`))
	f.mux.Handle("/projects", jsonHandler(http.StatusOK, `[]`))

	a := NewWithClient("test-token", srv.URL, srv.Client())
	_, err := a.GetTasks(context.Background())

	var upstream *adapters.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.Status != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", upstream.Status)
	}
	if upstream.Body != "Forbidden" {
		t.Fatalf("body = %q", upstream.Body)
	}
	if upstream.Service != unified.ServiceTodoist {
		t.Fatalf("service = %q", upstream.Service)
	}
}

func TestCreateTask_MapsFieldsAndResolvesProject(t *testing.T) {
	f, srv := newFakeTodoist(t)
	var created map[string]interface{}
	f.mux.HandleFunc("/tasks", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&created); err != nil {
			t.Errorf("decode create payload: %v", err)
		}
		jsonHandler(http.StatusOK, `{"id":"9","content":"new task","priority":3,"project_id":"p1","created_at":"2024-01-01T00:00:00Z"}`)(w, r)
	})
	f.mux.Handle("/projects", jsonHandler(http.StatusOK, `[{"id":"p1","name":"Home"}]`))

	a := NewWithClient("test-token", srv.URL, srv.Client())
	task, err := a.CreateTask(context.Background(), unified.TaskInput{
		Title:    "new task",
		Priority: unified.PriorityHigh,
		DueDate:  "2024-05-01",
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if created["content"] != "new task" {
		t.Fatalf("content = %v", created["content"])
	}
	if created["priority"] != float64(3) {
		t.Fatalf("priority = %v, want 3", created["priority"])
	}
	if created["due_date"] != "2024-05-01" {
		t.Fatalf("due_date = %v", created["due_date"])
	}
	if task.Project.Name != "Home" {
		t.Fatalf("project name = %q", task.Project.Name)
	}
	if task.ID != "todoist_9" {
		t.Fatalf("id = %q", task.ID)
	}
}

func TestCreateTask_UnknownPriorityDefaultsToOne(t *testing.T) {
	f, srv := newFakeTodoist(t)
	var created map[string]interface{}
	f.mux.HandleFunc("/tasks", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&created)
		jsonHandler(http.StatusOK, `{"id":"9","content":"x","priority":1,"project_id":"p1","created_at":"2024-01-01T00:00:00Z"}`)(w, r)
	})
	f.mux.Handle("/projects", jsonHandler(http.StatusOK, `[]`))

	a := NewWithClient("test-token", srv.URL, srv.Client())
	if _, err := a.CreateTask(context.Background(), unified.TaskInput{Title: "x"}); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if created["priority"] != float64(1) {
		t.Fatalf("priority = %v, want 1", created["priority"])
	}
}

func TestUpdateTask_ForwardsOnlySetFields(t *testing.T) {
	f, srv := newFakeTodoist(t)
	var updated map[string]interface{}
	f.mux.HandleFunc("/tasks/5", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
				t.Errorf("decode update payload: %v", err)
			}
			w.WriteHeader(http.StatusNoContent)
		case http.MethodGet:
			jsonHandler(http.StatusOK, `{"id":"5","content":"renamed","priority":1,"project_id":"p1","created_at":"2024-01-01T00:00:00Z"}`)(w, r)
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	})
	f.mux.Handle("/projects", jsonHandler(http.StatusOK, `[{"id":"p1","name":"Home"}]`))

	title := "renamed"
	a := NewWithClient("test-token", srv.URL, srv.Client())
	task, err := a.UpdateTask(context.Background(), "5", unified.TaskUpdate{Title: &title})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}

	if len(updated) != 1 {
		t.Fatalf("payload should carry only the set field, got %v", updated)
	}
	if updated["content"] != "renamed" {
		t.Fatalf("content = %v", updated["content"])
	}
	if task.Title != "renamed" || task.Project.Name != "Home" {
		t.Fatalf("task = %+v", task)
	}
}

func TestDeleteAndCompleteTask(t *testing.T) {
	f, srv := newFakeTodoist(t)
	f.mux.HandleFunc("/tasks/7", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	f.mux.HandleFunc("/tasks/8/close", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	a := NewWithClient("test-token", srv.URL, srv.Client())
	if err := a.DeleteTask(context.Background(), "7"); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if err := a.CompleteTask(context.Background(), "8"); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
}

func TestGetProjects(t *testing.T) {
	f, srv := newFakeTodoist(t)
	f.mux.Handle("/projects", jsonHandler(http.StatusOK, `[{"id":"p1","name":"Home","color":"blue"}]`))

	a := NewWithClient("test-token", srv.URL, srv.Client())
	projects, err := a.GetProjects(context.Background())
	if err != nil {
		t.Fatalf("GetProjects: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("expected 1 project, got %d", len(projects))
	}
	p := projects[0]
	if p.ID != "todoist_p1" || p.ExternalID != "p1" || p.Name != "Home" || p.Color != "blue" {
		t.Fatalf("project = %+v", p)
	}
}
