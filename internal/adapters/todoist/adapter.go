// Package todoist implements the unified adapter contract over the Todoist
// REST v2 API. It is the reference adapter: the normalization rules here set
// the pattern the other vendors follow.
package todoist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pysugar/task-nexus/internal/adapters"
	"github.com/pysugar/task-nexus/internal/unified"
)

const (
	defaultBaseURL = "https://api.todoist.com/rest/v2"
	defaultTimeout = 30 * time.Second
)

// Adapter talks to the Todoist REST API with a caller-supplied token.
type Adapter struct {
	apiToken   string
	baseURL    string
	httpClient *http.Client
}

func New(apiToken string) *Adapter {
	return NewWithClient(apiToken, defaultBaseURL, nil)
}

// NewWithClient allows overriding the base URL and HTTP client, mainly for
// tests against a local server.
func NewWithClient(apiToken, baseURL string, httpClient *http.Client) *Adapter {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Adapter{
		apiToken:   apiToken,
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// request issues one vendor call. A nil out discards the response body
// (Todoist answers 204 on update/close/delete). Non-2xx responses come back
// as *adapters.UpstreamError with the vendor status and body captured.
func (a *Adapter) request(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode todoist payload: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build todoist request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("todoist request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return &adapters.UpstreamError{
			Service: unified.ServiceTodoist,
			Status:  resp.StatusCode,
			Body:    string(raw),
		}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode todoist response: %w", err)
	}
	return nil
}

// GetTasks fetches the task and project lists concurrently and returns the
// normalized tasks.
func (a *Adapter) GetTasks(ctx context.Context) ([]unified.Task, error) {
	var vendorTasks []todoistTask
	var vendorProjects []todoistProject

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.request(gctx, http.MethodGet, "/tasks", nil, &vendorTasks)
	})
	g.Go(func() error {
		return a.request(gctx, http.MethodGet, "/projects", nil, &vendorProjects)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := projectNameMap(vendorProjects)
	tasks := make([]unified.Task, 0, len(vendorTasks))
	for _, t := range vendorTasks {
		tasks = append(tasks, toUnified(t, names))
	}
	return tasks, nil
}

// GetTask fetches a single task plus the project list and normalizes.
func (a *Adapter) GetTask(ctx context.Context, externalID string) (*unified.Task, error) {
	var vendorTask todoistTask
	var vendorProjects []todoistProject

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.request(gctx, http.MethodGet, "/tasks/"+externalID, nil, &vendorTask)
	})
	g.Go(func() error {
		return a.request(gctx, http.MethodGet, "/projects", nil, &vendorProjects)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	task := toUnified(vendorTask, projectNameMap(vendorProjects))
	return &task, nil
}

// CreateTask creates a task and re-fetches the project list to resolve the
// project name on the returned task. The extra round trip is accepted.
func (a *Adapter) CreateTask(ctx context.Context, input unified.TaskInput) (*unified.Task, error) {
	payload := todoistCreate{
		Content:     input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Priority:    vendorPriority(input.Priority),
		Labels:      input.Labels,
		ProjectID:   input.ProjectID,
	}
	if payload.Labels == nil {
		payload.Labels = []string{}
	}

	var created todoistTask
	if err := a.request(ctx, http.MethodPost, "/tasks", payload, &created); err != nil {
		return nil, err
	}

	var vendorProjects []todoistProject
	if err := a.request(ctx, http.MethodGet, "/projects", nil, &vendorProjects); err != nil {
		return nil, err
	}

	task := toUnified(created, projectNameMap(vendorProjects))
	return &task, nil
}

// UpdateTask forwards only the fields present in updates, then re-fetches the
// task and project list to return the fresh normalized state.
func (a *Adapter) UpdateTask(ctx context.Context, externalID string, updates unified.TaskUpdate) (*unified.Task, error) {
	payload := map[string]interface{}{}
	if updates.Title != nil {
		payload["content"] = *updates.Title
	}
	if updates.Description != nil {
		payload["description"] = *updates.Description
	}
	if updates.DueDate != nil {
		payload["due_date"] = *updates.DueDate
	}
	if updates.Priority != nil {
		payload["priority"] = vendorPriority(*updates.Priority)
	}
	if updates.Labels != nil {
		payload["labels"] = *updates.Labels
	}

	// Todoist updates via POST on the task resource.
	if err := a.request(ctx, http.MethodPost, "/tasks/"+externalID, payload, nil); err != nil {
		return nil, err
	}

	return a.GetTask(ctx, externalID)
}

func (a *Adapter) DeleteTask(ctx context.Context, externalID string) error {
	return a.request(ctx, http.MethodDelete, "/tasks/"+externalID, nil, nil)
}

func (a *Adapter) CompleteTask(ctx context.Context, externalID string) error {
	return a.request(ctx, http.MethodPost, "/tasks/"+externalID+"/close", nil, nil)
}

func (a *Adapter) GetProjects(ctx context.Context) ([]unified.Project, error) {
	var vendorProjects []todoistProject
	if err := a.request(ctx, http.MethodGet, "/projects", nil, &vendorProjects); err != nil {
		return nil, err
	}
	projects := make([]unified.Project, 0, len(vendorProjects))
	for _, p := range vendorProjects {
		projects = append(projects, unified.Project{
			ID:          unified.PrefixID(unified.ServiceTodoist, p.ID),
			ExternalID:  p.ID,
			ServiceType: unified.ServiceTodoist,
			Name:        p.Name,
			Color:       p.Color,
		})
	}
	return projects, nil
}
