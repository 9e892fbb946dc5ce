// Package adapters defines the capability contract every vendor adapter
// implements and the registry that maps service types to adapter factories.
package adapters

import (
	"context"

	"github.com/pysugar/task-nexus/internal/unified"
)

// Adapter is the per-vendor capability set. External ids are the vendor's
// raw ids, without the unified service prefix.
type Adapter interface {
	GetTasks(ctx context.Context) ([]unified.Task, error)
	GetTask(ctx context.Context, externalID string) (*unified.Task, error)
	CreateTask(ctx context.Context, input unified.TaskInput) (*unified.Task, error)
	UpdateTask(ctx context.Context, externalID string, updates unified.TaskUpdate) (*unified.Task, error)
	DeleteTask(ctx context.Context, externalID string) error
	CompleteTask(ctx context.Context, externalID string) error
	GetProjects(ctx context.Context) ([]unified.Project, error)
}
