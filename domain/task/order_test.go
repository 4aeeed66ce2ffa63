package task

import (
	"testing"
	"time"
)

func datePtr(t time.Time) *time.Time { return &t }

func day(n int) time.Time {
	return time.Date(2024, 1, n, 0, 0, 0, 0, time.UTC)
}

func TestSort_PinnedFirst(t *testing.T) {
	a := Task{ID: "a", Pinned: true}
	b := Task{ID: "b", Pinned: false}

	sorted := Sort([]Task{b, a})
	if sorted[0].ID != "a" || sorted[1].ID != "b" {
		t.Errorf("Sort() = [%s %s], want [a b]", sorted[0].ID, sorted[1].ID)
	}
}

func TestSort_IncompleteBeforeCompleted(t *testing.T) {
	a := Task{ID: "a", Completed: true, Status: StatusCompleted}
	b := Task{ID: "b"}

	sorted := Sort([]Task{a, b})
	if sorted[0].ID != "b" {
		t.Errorf("Sort() first = %s, want b", sorted[0].ID)
	}
}

func TestSort_DueDate(t *testing.T) {
	t.Run("dated before undated", func(t *testing.T) {
		a := Task{ID: "a"}
		b := Task{ID: "b", DueDate: datePtr(day(5))}

		sorted := Sort([]Task{a, b})
		if sorted[0].ID != "b" {
			t.Errorf("Sort() first = %s, want b", sorted[0].ID)
		}
	})

	t.Run("earlier date first", func(t *testing.T) {
		a := Task{ID: "a", DueDate: datePtr(day(1))}
		b := Task{ID: "b", DueDate: datePtr(day(3))}

		sorted := Sort([]Task{b, a})
		if sorted[0].ID != "a" {
			t.Errorf("Sort() first = %s, want a", sorted[0].ID)
		}
	})
}

func TestSort_Urgency(t *testing.T) {
	t.Run("critical before low", func(t *testing.T) {
		a := Task{ID: "a", Urgency: UrgencyLow}
		b := Task{ID: "b", Urgency: UrgencyCritical}

		sorted := Sort([]Task{a, b})
		if sorted[0].ID != "b" {
			t.Errorf("Sort() first = %s, want b", sorted[0].ID)
		}
	})

	t.Run("missing urgency counts as no-rush", func(t *testing.T) {
		a := Task{ID: "a"}
		b := Task{ID: "b", Urgency: UrgencyLow}

		sorted := Sort([]Task{a, b})
		if sorted[0].ID != "b" {
			t.Errorf("Sort() first = %s, want b", sorted[0].ID)
		}
	})

	t.Run("urgency ignored when both completed", func(t *testing.T) {
		a := Task{ID: "a", Completed: true, Status: StatusCompleted, Urgency: UrgencyLow, CreatedAt: day(2)}
		b := Task{ID: "b", Completed: true, Status: StatusCompleted, Urgency: UrgencyCritical, CreatedAt: day(1)}

		// Falls through to createdAt descending.
		sorted := Sort([]Task{b, a})
		if sorted[0].ID != "a" {
			t.Errorf("Sort() first = %s, want a", sorted[0].ID)
		}
	})
}

func TestSort_CreatedAtFallback(t *testing.T) {
	a := Task{ID: "a", CreatedAt: day(1)}
	b := Task{ID: "b", CreatedAt: day(3)}

	sorted := Sort([]Task{a, b})
	if sorted[0].ID != "b" {
		t.Errorf("Sort() first = %s, want b (more recent)", sorted[0].ID)
	}
}

func TestSort_Idempotent(t *testing.T) {
	tasks := []Task{
		{ID: "a", Pinned: true, CreatedAt: day(1)},
		{ID: "b", Completed: true, Status: StatusCompleted, CreatedAt: day(2)},
		{ID: "c", DueDate: datePtr(day(4)), Urgency: UrgencyHigh, CreatedAt: day(3)},
		{ID: "d", DueDate: datePtr(day(4)), Urgency: UrgencyCritical, CreatedAt: day(4)},
		{ID: "e", CreatedAt: day(5)},
	}

	once := Sort(tasks)
	twice := Sort(once)
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Fatalf("Sort() not idempotent at %d: %s vs %s", i, once[i].ID, twice[i].ID)
		}
	}
}

func TestSort_DoesNotModifyInput(t *testing.T) {
	tasks := []Task{
		{ID: "a", CreatedAt: day(1)},
		{ID: "b", CreatedAt: day(2)},
	}

	Sort(tasks)
	if tasks[0].ID != "a" || tasks[1].ID != "b" {
		t.Error("Sort() modified its input")
	}
}

func TestSort_Empty(t *testing.T) {
	if got := Sort(nil); len(got) != 0 {
		t.Errorf("Sort(nil) = %d tasks, want 0", len(got))
	}
}

func TestPartition(t *testing.T) {
	tasks := []Task{
		{ID: "a"},
		{ID: "b", Completed: true, Status: StatusCompleted},
		{ID: "c"},
	}

	pending, completed := Partition(tasks)
	if len(pending) != 2 || pending[0].ID != "a" || pending[1].ID != "c" {
		t.Errorf("pending = %v, want [a c]", ids(pending))
	}
	if len(completed) != 1 || completed[0].ID != "b" {
		t.Errorf("completed = %v, want [b]", ids(completed))
	}
}

func ids(tasks []Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}
