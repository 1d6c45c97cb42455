package domain

import "time"

// Task priorities. Lower number means more urgent.
const (
	PriorityHigh   = 1
	PriorityMedium = 2
	PriorityLow    = 3
)

// DefaultPriority is applied when a task is created without one.
const DefaultPriority = PriorityMedium

// ValidPriority reports whether p is one of the defined priority levels.
func ValidPriority(p int) bool {
	return p >= PriorityHigh && p <= PriorityLow
}

type Task struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Completed   bool
	DueDate     *time.Time // nil means no deadline
	Priority    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskFilter narrows a task listing. Nil fields match everything.
type TaskFilter struct {
	Completed *bool
	Priority  *int
}

// Sortable task columns.
const (
	TaskSortCreatedAt = "created_at"
	TaskSortDueDate   = "due_date"
	TaskSortPriority  = "priority"
)

// TaskSort describes the ordering of a task listing. A Field outside the
// sortable columns falls back to created_at rather than erroring; clients
// sending junk sort params still get a sensible listing.
type TaskSort struct {
	Field     string
	Ascending bool
}

// Normalize returns the sort with unknown fields replaced by created_at.
func (s TaskSort) Normalize() TaskSort {
	switch s.Field {
	case TaskSortCreatedAt, TaskSortDueDate, TaskSortPriority:
		return s
	default:
		return TaskSort{Field: TaskSortCreatedAt, Ascending: s.Ascending}
	}
}
