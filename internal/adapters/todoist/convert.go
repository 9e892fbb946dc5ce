package todoist

import "github.com/pysugar/task-nexus/internal/unified"

// Wire shapes of the Todoist REST v2 API.

type todoistTask struct {
	ID          string      `json:"id"`
	Content     string      `json:"content"`
	Description string      `json:"description"`
	Due         *todoistDue `json:"due,omitempty"`
	Priority    int         `json:"priority"`
	Labels      []string    `json:"labels"`
	ProjectID   string      `json:"project_id"`
	CompletedAt string      `json:"completed_at,omitempty"`
	CreatedAt   string      `json:"created_at"`
}

type todoistDue struct {
	Date     string `json:"date"`
	Datetime string `json:"datetime,omitempty"`
}

type todoistProject struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type todoistCreate struct {
	Content     string   `json:"content"`
	Description string   `json:"description"`
	DueDate     string   `json:"due_date,omitempty"`
	Priority    int      `json:"priority"`
	Labels      []string `json:"labels"`
	ProjectID   string   `json:"project_id,omitempty"`
}

// Todoist priorities are 1 (normal) through 4 (urgent); the unified scale
// maps onto them one to one.
var priorityToVendor = map[unified.Priority]int{
	unified.PriorityLow:    1,
	unified.PriorityMedium: 2,
	unified.PriorityHigh:   3,
	unified.PriorityUrgent: 4,
}

var priorityFromVendor = map[int]unified.Priority{
	1: unified.PriorityLow,
	2: unified.PriorityMedium,
	3: unified.PriorityHigh,
	4: unified.PriorityUrgent,
}

// vendorPriority converts unified priority to the Todoist integer.
// Unknown input falls back to 1 (low).
func vendorPriority(p unified.Priority) int {
	if v, ok := priorityToVendor[p]; ok {
		return v
	}
	return 1
}

// unifiedPriority converts a Todoist priority integer to the unified scale.
// Out-of-range input falls back to low.
func unifiedPriority(p int) unified.Priority {
	if v, ok := priorityFromVendor[p]; ok {
		return v
	}
	return unified.PriorityLow
}

func projectNameMap(projects []todoistProject) map[string]string {
	names := make(map[string]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}
	return names
}

// toUnified normalizes one Todoist task. Tasks without a resolvable project
// fall back to the "Inbox" name. Todoist does not report an update timestamp,
// so updated_at mirrors created_at.
func toUnified(t todoistTask, projectNames map[string]string) unified.Task {
	u := unified.Task{
		ID:          unified.PrefixID(unified.ServiceTodoist, t.ID),
		ExternalID:  t.ID,
		ServiceType: unified.ServiceTodoist,
		Title:       t.Content,
		Description: t.Description,
		Priority:    unifiedPriority(t.Priority),
		Status:      unified.StatusPending,
		Labels:      t.Labels,
		Project: unified.ProjectRef{
			ID:   t.ProjectID,
			Name: "Inbox",
		},
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.CreatedAt,
	}

	if u.Labels == nil {
		u.Labels = []string{}
	}
	if t.CompletedAt != "" {
		u.Status = unified.StatusCompleted
		u.CompletedAt = t.CompletedAt
	}
	if t.Due != nil {
		if t.Due.Datetime != "" {
			u.DueDate = t.Due.Datetime
		} else {
			u.DueDate = t.Due.Date
		}
	}
	if name, ok := projectNames[t.ProjectID]; ok {
		u.Project.Name = name
	}
	return u
}
