package unified

import "testing"

func TestParseServiceType(t *testing.T) {
	tests := []struct {
		in    string
		want  ServiceType
		valid bool
	}{
		{in: "todoist", want: ServiceTodoist, valid: true},
		{in: "google_tasks", want: ServiceGoogleTasks, valid: true},
		{in: "microsoft_todo", want: ServiceMicrosoftTodo, valid: true},
		{in: "bitrix24", want: ServiceBitrix24, valid: true},
		{in: "Todoist", valid: false},
		{in: "jira", valid: false},
		{in: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseServiceType(tt.in)
			if ok != tt.valid {
				t.Fatalf("ParseServiceType(%q) valid=%v, want %v", tt.in, ok, tt.valid)
			}
			if ok && got != tt.want {
				t.Fatalf("ParseServiceType(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizePriority_FallsBackToLow(t *testing.T) {
	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent} {
		if got := NormalizePriority(string(p)); got != p {
			t.Fatalf("NormalizePriority(%q) = %q", p, got)
		}
	}
	for _, raw := range []string{"", "critical", "URGENT", "5"} {
		if got := NormalizePriority(raw); got != PriorityLow {
			t.Fatalf("NormalizePriority(%q) = %q, want low", raw, got)
		}
	}
}

func TestPrefixID(t *testing.T) {
	if got := PrefixID(ServiceTodoist, "123"); got != "todoist_123" {
		t.Fatalf("PrefixID = %q", got)
	}
}

func TestTaskUpdateEmpty(t *testing.T) {
	if !(TaskUpdate{}).Empty() {
		t.Fatal("zero update should be empty")
	}
	title := "x"
	if (TaskUpdate{Title: &title}).Empty() {
		t.Fatal("update with title should not be empty")
	}
}
