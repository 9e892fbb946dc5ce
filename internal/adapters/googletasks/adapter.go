// Package googletasks implements the unified adapter contract over the
// Google Tasks API (tasks/v1). Tasks live in a single task list (the
// authenticated user's default list unless configured otherwise); task lists
// double as projects.
//
// Google Tasks has no priority scale, so every task normalizes to low and
// priority input is ignored on writes.
package googletasks

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasksapi "google.golang.org/api/tasks/v1"

	"github.com/pysugar/task-nexus/internal/adapters"
	"github.com/pysugar/task-nexus/internal/unified"
)

const defaultListID = "@default"

// Adapter talks to the Google Tasks API with a caller-supplied access token.
type Adapter struct {
	svc    *tasksapi.Service
	listID string
}

// New builds an adapter around a bearer access token.
func New(ctx context.Context, accessToken string) (*Adapter, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	svc, err := tasksapi.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create google tasks service: %w", err)
	}
	return NewWithService(svc, defaultListID), nil
}

// NewWithService wraps an existing service, mainly for tests.
func NewWithService(svc *tasksapi.Service, listID string) *Adapter {
	if listID == "" {
		listID = defaultListID
	}
	return &Adapter{svc: svc, listID: listID}
}

// wrapErr converts googleapi errors into the structured upstream error so the
// API boundary can map vendor status codes without string matching.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &adapters.UpstreamError{
			Service: unified.ServiceGoogleTasks,
			Status:  apiErr.Code,
			Body:    apiErr.Message,
		}
	}
	return err
}

func (a *Adapter) GetTasks(ctx context.Context) ([]unified.Task, error) {
	var vendorTasks *tasksapi.Tasks
	var list *tasksapi.TaskList

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		vendorTasks, err = a.svc.Tasks.List(a.listID).ShowCompleted(true).ShowHidden(true).Context(gctx).Do()
		return wrapErr(err)
	})
	g.Go(func() error {
		var err error
		list, err = a.svc.Tasklists.Get(a.listID).Context(gctx).Do()
		return wrapErr(err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tasks := make([]unified.Task, 0, len(vendorTasks.Items))
	for _, t := range vendorTasks.Items {
		tasks = append(tasks, toUnified(t, list))
	}
	return tasks, nil
}

func (a *Adapter) GetTask(ctx context.Context, externalID string) (*unified.Task, error) {
	var vendorTask *tasksapi.Task
	var list *tasksapi.TaskList

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		vendorTask, err = a.svc.Tasks.Get(a.listID, externalID).Context(gctx).Do()
		return wrapErr(err)
	})
	g.Go(func() error {
		var err error
		list, err = a.svc.Tasklists.Get(a.listID).Context(gctx).Do()
		return wrapErr(err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	task := toUnified(vendorTask, list)
	return &task, nil
}

func (a *Adapter) CreateTask(ctx context.Context, input unified.TaskInput) (*unified.Task, error) {
	created, err := a.svc.Tasks.Insert(a.listID, &tasksapi.Task{
		Title: input.Title,
		Notes: input.Description,
		Due:   input.DueDate,
	}).Context(ctx).Do()
	if err != nil {
		return nil, wrapErr(err)
	}

	list, err := a.svc.Tasklists.Get(a.listID).Context(ctx).Do()
	if err != nil {
		return nil, wrapErr(err)
	}

	task := toUnified(created, list)
	return &task, nil
}

func (a *Adapter) UpdateTask(ctx context.Context, externalID string, updates unified.TaskUpdate) (*unified.Task, error) {
	patch := &tasksapi.Task{}
	if updates.Title != nil {
		patch.Title = *updates.Title
	}
	if updates.Description != nil {
		patch.Notes = *updates.Description
	}
	if updates.DueDate != nil {
		patch.Due = *updates.DueDate
	}
	// Priority and labels have no Google Tasks representation.

	if _, err := a.svc.Tasks.Patch(a.listID, externalID, patch).Context(ctx).Do(); err != nil {
		return nil, wrapErr(err)
	}
	return a.GetTask(ctx, externalID)
}

func (a *Adapter) DeleteTask(ctx context.Context, externalID string) error {
	return wrapErr(a.svc.Tasks.Delete(a.listID, externalID).Context(ctx).Do())
}

func (a *Adapter) CompleteTask(ctx context.Context, externalID string) error {
	_, err := a.svc.Tasks.Patch(a.listID, externalID, &tasksapi.Task{
		Status: "completed",
	}).Context(ctx).Do()
	return wrapErr(err)
}

func (a *Adapter) GetProjects(ctx context.Context) ([]unified.Project, error) {
	lists, err := a.svc.Tasklists.List().Context(ctx).Do()
	if err != nil {
		return nil, wrapErr(err)
	}
	projects := make([]unified.Project, 0, len(lists.Items))
	for _, tl := range lists.Items {
		projects = append(projects, unified.Project{
			ID:          unified.PrefixID(unified.ServiceGoogleTasks, tl.Id),
			ExternalID:  tl.Id,
			ServiceType: unified.ServiceGoogleTasks,
			Name:        tl.Title,
			UpdatedAt:   tl.Updated,
		})
	}
	return projects, nil
}

// toUnified normalizes one Google task. The API reports only an update
// timestamp, so created_at mirrors it.
func toUnified(t *tasksapi.Task, list *tasksapi.TaskList) unified.Task {
	u := unified.Task{
		ID:          unified.PrefixID(unified.ServiceGoogleTasks, t.Id),
		ExternalID:  t.Id,
		ServiceType: unified.ServiceGoogleTasks,
		Title:       t.Title,
		Description: t.Notes,
		Priority:    unified.PriorityLow,
		Status:      unified.StatusPending,
		Labels:      []string{},
		CreatedAt:   t.Updated,
		UpdatedAt:   t.Updated,
	}
	if list != nil {
		u.Project = unified.ProjectRef{ID: list.Id, Name: list.Title}
	}
	if t.Status == "completed" {
		u.Status = unified.StatusCompleted
		if t.Completed != nil {
			u.CompletedAt = *t.Completed
		}
	}
	if t.Due != "" {
		u.DueDate = t.Due
	}
	return u
}
