package task

import "sort"

// urgencyRank orders urgencies for display, most urgent first.
var urgencyRank = map[Urgency]int{
	UrgencyCritical: 0,
	UrgencyHigh:     1,
	UrgencyModerate: 2,
	UrgencyLow:      3,
	UrgencyNoRush:   4,
}

// rankUrgency treats a missing urgency as no-rush.
func rankUrgency(u Urgency) int {
	if r, ok := urgencyRank[u]; ok {
		return r
	}
	return urgencyRank[UrgencyNoRush]
}

// Compare orders two tasks for display. It returns a negative value if
// a sorts before b, positive if after, zero if the comparator chain is
// exhausted. The chain, first difference wins:
//
//  1. pinned before unpinned
//  2. incomplete before completed
//  3. tasks with a due date before tasks without; earlier date first
//  4. urgency, most urgent first (only when both tasks are incomplete;
//     missing urgency counts as no-rush)
//  5. newer createdAt first
func Compare(a, b *Task) int {
	if a.Pinned != b.Pinned {
		if a.Pinned {
			return -1
		}
		return 1
	}

	if a.Completed != b.Completed {
		if !a.Completed {
			return -1
		}
		return 1
	}

	switch {
	case a.DueDate != nil && b.DueDate == nil:
		return -1
	case a.DueDate == nil && b.DueDate != nil:
		return 1
	case a.DueDate != nil && b.DueDate != nil:
		if a.DueDate.Before(*b.DueDate) {
			return -1
		}
		if b.DueDate.Before(*a.DueDate) {
			return 1
		}
	}

	if !a.Completed && !b.Completed {
		if d := rankUrgency(a.Urgency) - rankUrgency(b.Urgency); d != 0 {
			return d
		}
	}

	// Newest first.
	if a.CreatedAt.After(b.CreatedAt) {
		return -1
	}
	if b.CreatedAt.After(a.CreatedAt) {
		return 1
	}
	return 0
}

// Sort returns the tasks in display order. The input is not modified
// and the sort is stable, so fully tied tasks keep their relative order.
func Sort(tasks []Task) []Task {
	sorted := make([]Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return Compare(&sorted[i], &sorted[j]) < 0
	})
	return sorted
}

// Partition splits tasks into pending and completed buckets, keeping
// the input order within each bucket. It is a filter, not a sort.
func Partition(tasks []Task) (pending, completed []Task) {
	pending = make([]Task, 0, len(tasks))
	completed = make([]Task, 0)
	for _, t := range tasks {
		if t.Completed {
			completed = append(completed, t)
		} else {
			pending = append(pending, t)
		}
	}
	return pending, completed
}
