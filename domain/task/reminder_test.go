package task

import (
	"testing"
	"time"
)

func TestPlanReminders(t *testing.T) {
	due := day(1) // 2024-01-01

	base := Task{
		ID:           "task-1",
		UserID:       "user-1",
		Title:        "Submit report",
		Description:  "Quarterly numbers",
		DueDate:      &due,
		ReminderTime: "08:00",
	}

	t.Run("due today with future reminder fires once", func(t *testing.T) {
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

		got := PlanReminders([]Task{base}, now)
		if len(got) != 1 {
			t.Fatalf("PlanReminders() = %d notifications, want 1", len(got))
		}

		want := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
		if !got[0].TriggerAt.Equal(want) {
			t.Errorf("TriggerAt = %v, want %v", got[0].TriggerAt, want)
		}
		if got[0].Title != "Reminder: Submit report" {
			t.Errorf("Title = %q", got[0].Title)
		}
		if got[0].Body != "Quarterly numbers" {
			t.Errorf("Body = %q", got[0].Body)
		}
		if got[0].UserID != "user-1" {
			t.Errorf("UserID = %q, want user-1", got[0].UserID)
		}
	})

	t.Run("passed reminder never fires", func(t *testing.T) {
		now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

		if got := PlanReminders([]Task{base}, now); len(got) != 0 {
			t.Errorf("PlanReminders() = %d notifications, want 0", len(got))
		}
	})

	t.Run("empty description falls back to fixed body", func(t *testing.T) {
		tk := base
		tk.Description = ""
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

		got := PlanReminders([]Task{tk}, now)
		if len(got) != 1 {
			t.Fatalf("PlanReminders() = %d notifications, want 1", len(got))
		}
		if got[0].Body != DefaultReminderBody {
			t.Errorf("Body = %q, want %q", got[0].Body, DefaultReminderBody)
		}
	})

	t.Run("ineligible tasks are skipped", func(t *testing.T) {
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

		completed := base
		completed.Completed = true
		completed.Status = StatusCompleted

		noDue := base
		noDue.DueDate = nil

		noReminder := base
		noReminder.ReminderTime = ""

		past := base
		pastDue := day(1).AddDate(0, 0, -2)
		past.DueDate = &pastDue

		got := PlanReminders([]Task{completed, noDue, noReminder, past}, now)
		if len(got) != 0 {
			t.Errorf("PlanReminders() = %d notifications, want 0", len(got))
		}
	})

	t.Run("malformed time skips silently without failing the batch", func(t *testing.T) {
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

		bad := base
		bad.ID = "task-bad"
		bad.ReminderTime = "8 o'clock"

		got := PlanReminders([]Task{bad, base}, now)
		if len(got) != 1 {
			t.Fatalf("PlanReminders() = %d notifications, want 1", len(got))
		}
		if got[0].TaskID != "task-1" {
			t.Errorf("TaskID = %q, want task-1", got[0].TaskID)
		}
	})
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		hour    int
		minute  int
		wantErr bool
	}{
		{"08:00", 8, 0, false},
		{"23:59", 23, 59, false},
		{"00:00", 0, 0, false},
		{"24:00", 0, 0, true},
		{"12:60", 0, 0, true},
		{"8:00", 0, 0, true},
		{"0800", 0, 0, true},
		{"", 0, 0, true},
		{"ab:cd", 0, 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			h, m, err := parseClock(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Errorf("parseClock(%q) error = nil, want error", tc.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseClock(%q) error = %v", tc.in, err)
			}
			if h != tc.hour || m != tc.minute {
				t.Errorf("parseClock(%q) = %d:%d, want %d:%d", tc.in, h, m, tc.hour, tc.minute)
			}
		})
	}
}

func TestNotificationKey(t *testing.T) {
	at := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	a := Notification{TaskID: "t1", TriggerAt: at}
	b := Notification{TaskID: "t1", TriggerAt: at}
	c := Notification{TaskID: "t1", TriggerAt: at.Add(time.Minute)}

	if a.Key() != b.Key() {
		t.Error("same task and instant must share a key")
	}
	if a.Key() == c.Key() {
		t.Error("different instants must not share a key")
	}
}
