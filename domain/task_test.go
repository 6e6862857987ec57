package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
)

func TestTaskMarshalIncludesFalseCompleted(t *testing.T) {
	task := Task{ID: 1, Title: "Title", Category: CategoryWork, Priority: PriorityLow}

	payload, err := sonic.Marshal(task)
	if err != nil {
		t.Fatalf("marshal task: %v", err)
	}

	if !strings.Contains(string(payload), "\"completed\":false") {
		t.Fatalf("expected completed field to be present, got %s", payload)
	}
}

func TestPriorityRank(t *testing.T) {
	if PriorityHigh.Rank() <= PriorityMedium.Rank() || PriorityMedium.Rank() <= PriorityLow.Rank() {
		t.Fatalf("expected High > Medium > Low, got %d %d %d",
			PriorityHigh.Rank(), PriorityMedium.Rank(), PriorityLow.Rank())
	}
	if Priority("Urgent").Rank() != 0 {
		t.Fatalf("expected unknown priority to rank 0, got %d", Priority("Urgent").Rank())
	}
}

func TestOverdueAt(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	past := NewDate(2025, time.March, 9)
	future := NewDate(2025, time.March, 11)

	testCases := map[string]struct {
		task    Task
		overdue bool
	}{
		"past_due_pending":   {Task{DueDate: &past}, true},
		"past_due_completed": {Task{DueDate: &past, Completed: true}, false},
		"future_due":         {Task{DueDate: &future}, false},
		"no_due_date":        {Task{}, false},
		"due_today":          {Task{DueDate: ptrDate(NewDate(2025, time.March, 10))}, true},
		"zero_due_date":      {Task{DueDate: &Date{}}, false},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			if got := tc.task.OverdueAt(now); got != tc.overdue {
				t.Fatalf("expected overdue=%v, got %v", tc.overdue, got)
			}
		})
	}
}

func ptrDate(d Date) *Date { return &d }

func TestSanitize(t *testing.T) {
	if got := Sanitize("  Buy milk  "); got != "Buy milk" {
		t.Fatalf("expected trimmed title, got %q", got)
	}
	if got := Sanitize("<script>alert(1)</script>"); strings.ContainsAny(got, "<>") {
		t.Fatalf("expected HTML to be neutralized, got %q", got)
	}
}

func TestCategoryAndPriorityValid(t *testing.T) {
	for _, c := range []Category{CategoryWork, CategoryPersonal, CategoryShopping} {
		if !c.Valid() {
			t.Fatalf("expected %q to be valid", c)
		}
	}
	if Category("Errands").Valid() {
		t.Fatal("expected unknown category to be invalid")
	}
	if Priority("Urgent").Valid() {
		t.Fatal("expected unknown priority to be invalid")
	}
}
