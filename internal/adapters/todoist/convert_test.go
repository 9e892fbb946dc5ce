package todoist

import (
	"testing"

	"github.com/pysugar/task-nexus/internal/unified"
)

func TestPriorityRoundTrip(t *testing.T) {
	for vendor := 1; vendor <= 4; vendor++ {
		if got := vendorPriority(unifiedPriority(vendor)); got != vendor {
			t.Fatalf("round trip for %d = %d", vendor, got)
		}
	}
}

func TestPriorityFallbacks(t *testing.T) {
	for _, vendor := range []int{0, 5, -1, 99} {
		if got := unifiedPriority(vendor); got != unified.PriorityLow {
			t.Fatalf("unifiedPriority(%d) = %q, want low", vendor, got)
		}
	}
	if got := vendorPriority(unified.Priority("critical")); got != 1 {
		t.Fatalf("vendorPriority(critical) = %d, want 1", got)
	}
	if got := vendorPriority(""); got != 1 {
		t.Fatalf("vendorPriority(empty) = %d, want 1", got)
	}
}

func TestToUnified_DueDatetimePreferred(t *testing.T) {
	task := todoistTask{
		ID:       "1",
		Content:  "write report",
		Priority: 2,
		Due:      &todoistDue{Date: "2024-03-01", Datetime: "2024-03-01T09:00:00Z"},
	}
	u := toUnified(task, nil)
	if u.DueDate != "2024-03-01T09:00:00Z" {
		t.Fatalf("due_date = %q, want datetime", u.DueDate)
	}
}

func TestToUnified_DueDateFallback(t *testing.T) {
	task := todoistTask{
		ID:  "1",
		Due: &todoistDue{Date: "2024-03-01"},
	}
	u := toUnified(task, nil)
	if u.DueDate != "2024-03-01" {
		t.Fatalf("due_date = %q, want date fallback", u.DueDate)
	}
}

func TestToUnified_Normalization(t *testing.T) {
	task := todoistTask{
		ID:          "42",
		Content:     "ship release",
		Description: "cut the tag",
		Priority:    4,
		Labels:      []string{"work", "release"},
		ProjectID:   "p1",
		CompletedAt: "2024-02-01T10:00:00Z",
		CreatedAt:   "2024-01-01T00:00:00Z",
	}
	u := toUnified(task, map[string]string{"p1": "Engineering"})

	if u.ID != "todoist_42" || u.ExternalID != "42" {
		t.Fatalf("id = %q external = %q", u.ID, u.ExternalID)
	}
	if u.ServiceType != unified.ServiceTodoist {
		t.Fatalf("service_type = %q", u.ServiceType)
	}
	if u.Title != "ship release" {
		t.Fatalf("title = %q", u.Title)
	}
	if u.Priority != unified.PriorityUrgent {
		t.Fatalf("priority = %q", u.Priority)
	}
	if u.Status != unified.StatusCompleted || u.CompletedAt == "" {
		t.Fatalf("status = %q completed_at = %q", u.Status, u.CompletedAt)
	}
	if u.Project.Name != "Engineering" {
		t.Fatalf("project name = %q", u.Project.Name)
	}
	if u.UpdatedAt != u.CreatedAt {
		t.Fatalf("updated_at should mirror created_at, got %q vs %q", u.UpdatedAt, u.CreatedAt)
	}
	if len(u.Labels) != 2 || u.Labels[0] != "work" || u.Labels[1] != "release" {
		t.Fatalf("labels = %v", u.Labels)
	}
}

func TestToUnified_UnknownProjectIsInbox(t *testing.T) {
	u := toUnified(todoistTask{ID: "1", ProjectID: "missing"}, map[string]string{"p1": "Engineering"})
	if u.Project.Name != "Inbox" {
		t.Fatalf("project name = %q, want Inbox", u.Project.Name)
	}
	if u.Status != unified.StatusPending {
		t.Fatalf("status = %q, want pending", u.Status)
	}
}

func TestToUnified_NilLabelsBecomeEmpty(t *testing.T) {
	u := toUnified(todoistTask{ID: "1"}, nil)
	if u.Labels == nil {
		t.Fatal("labels should be an empty slice, not nil")
	}
}
