// Package unified defines the task model every vendor adapter produces and
// consumes. Vendor representations never leak past the adapter boundary.
package unified

import "fmt"

// ServiceType identifies a supported task service.
type ServiceType string

const (
	ServiceTodoist       ServiceType = "todoist"
	ServiceGoogleTasks   ServiceType = "google_tasks"
	ServiceMicrosoftTodo ServiceType = "microsoft_todo"
	ServiceBitrix24      ServiceType = "bitrix24"
)

// ParseServiceType validates a raw service string against the closed enum.
func ParseServiceType(s string) (ServiceType, bool) {
	switch ServiceType(s) {
	case ServiceTodoist, ServiceGoogleTasks, ServiceMicrosoftTodo, ServiceBitrix24:
		return ServiceType(s), true
	}
	return "", false
}

// Priority is the unified 4-level priority scale.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// NormalizePriority clamps arbitrary input to the closed enum.
// Unknown values fall back to low.
func NormalizePriority(s string) Priority {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return Priority(s)
	}
	return PriorityLow
}

// Status is the unified task status.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

// ProjectRef is the project a task belongs to, embedded in Task.
type ProjectRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Assignee identifies the person a task is assigned to, when the vendor
// exposes one.
type Assignee struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Task is the unified task representation.
// ID is always "<service_type>_<external_id>".
type Task struct {
	ID          string      `json:"id"`
	ExternalID  string      `json:"external_id"`
	ServiceType ServiceType `json:"service_type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	DueDate     string      `json:"due_date,omitempty"`
	Priority    Priority    `json:"priority"`
	Status      Status      `json:"status"`
	Labels      []string    `json:"labels"`
	Project     ProjectRef  `json:"project"`
	Assignee    *Assignee   `json:"assignee,omitempty"`
	CreatedAt   string      `json:"created_at"`
	UpdatedAt   string      `json:"updated_at"`
	CompletedAt string      `json:"completed_at,omitempty"`
}

// Project is the unified project representation.
type Project struct {
	ID          string      `json:"id"`
	ExternalID  string      `json:"external_id"`
	ServiceType ServiceType `json:"service_type"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Color       string      `json:"color,omitempty"`
	CreatedAt   string      `json:"created_at,omitempty"`
	UpdatedAt   string      `json:"updated_at,omitempty"`
}

// TaskInput carries the fields a caller may set when creating a task.
type TaskInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	DueDate     string   `json:"due_date,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
	Labels      []string `json:"labels,omitempty"`
	ProjectID   string   `json:"project_id,omitempty"`
}

// TaskUpdate carries a partial update. Nil fields are not forwarded to the
// vendor.
type TaskUpdate struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	DueDate     *string   `json:"due_date,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	Labels      *[]string `json:"labels,omitempty"`
}

// Empty reports whether the update carries no fields at all.
func (u TaskUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.DueDate == nil &&
		u.Priority == nil && u.Labels == nil
}

// UnsupportedServiceError is returned when a service type has no registered
// adapter or OAuth configuration.
type UnsupportedServiceError struct {
	Service string
}

func (e *UnsupportedServiceError) Error() string {
	return fmt.Sprintf("unsupported service: %s", e.Service)
}

// PrefixID builds the vendor-prefixed unified id for tasks and projects.
func PrefixID(service ServiceType, externalID string) string {
	return string(service) + "_" + externalID
}
