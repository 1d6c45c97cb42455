package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/taskway/taskman/internal/taskman/domain"
	"github.com/taskway/taskman/internal/taskman/store"
	"github.com/taskway/taskman/pkg/idx"
	"github.com/taskway/taskman/pkg/slogx"
)

// TaskService implements owner-scoped task operations. Every method takes the
// owner's user id; a task belonging to someone else behaves exactly like one
// that doesn't exist.
type TaskService struct {
	Store store.Store
}

// List returns the owner's tasks matching the filter, in the requested order.
// Unknown sort columns fall back to created_at instead of erroring.
func (s *TaskService) List(
	ctx context.Context,
	ownerID string,
	f domain.TaskFilter,
	sort domain.TaskSort,
) ([]domain.Task, error) {
	return s.Store.Tasks().ListTasks(ctx, ownerID, f, sort)
}

// Get fetches a single owned task.
func (s *TaskService) Get(ctx context.Context, ownerID, taskID string) (domain.Task, error) {
	t, err := s.Store.Tasks().GetTaskByID(ctx, ownerID, taskID)
	if err != nil {
		return domain.Task{}, mapTaskErr(err)
	}
	return t, nil
}

// Create validates the payload and inserts a new task for the owner. A
// completed flag in the payload is ignored; new tasks always start
// incomplete.
func (s *TaskService) Create(ctx context.Context, ownerID string, p TaskPayload) (domain.Task, error) {
	now := time.Now().UTC()

	if violations := ValidateTaskPayload(p, ValidateCreate, now); len(violations) > 0 {
		return domain.Task{}, &ValidationError{Fields: violations}
	}

	t := domain.Task{
		ID:        idx.New().String(),
		UserID:    ownerID,
		Title:     strings.TrimSpace(*p.Title),
		Priority:  domain.DefaultPriority,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		due, err := ParseDueDate(*p.DueDate)
		if err != nil {
			return domain.Task{}, &ValidationError{Fields: map[string]string{
				"due_date": "due_date must be a valid ISO-8601 timestamp",
			}}
		}
		t.DueDate = due
	}

	if err := s.Store.Tasks().CreateTask(ctx, t); err != nil {
		slogx.FromContext(ctx).Error("task create failed", "err", err)
		return domain.Task{}, err
	}

	return t, nil
}

// Update applies a merge-patch to an owned task: only fields present in the
// payload change, everything else is kept as stored. The re-fetch and write
// happen in one transaction so concurrent updates can't silently drop each
// other's fields.
func (s *TaskService) Update(ctx context.Context, ownerID, taskID string, p TaskPayload) (domain.Task, error) {
	now := time.Now().UTC()

	if violations := ValidateTaskPayload(p, ValidateUpdate, now); len(violations) > 0 {
		return domain.Task{}, &ValidationError{Fields: violations}
	}

	var updated domain.Task
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		t, err := tx.Tasks().GetTaskByID(ctx, ownerID, taskID)
		if err != nil {
			return err
		}

		if p.Title != nil {
			t.Title = strings.TrimSpace(*p.Title)
		}
		if p.Description != nil {
			t.Description = *p.Description
		}
		if p.Completed != nil {
			t.Completed = *p.Completed
		}
		if p.Priority != nil {
			t.Priority = *p.Priority
		}
		if p.DueDate != nil {
			due, err := ParseDueDate(*p.DueDate)
			if err != nil {
				return &ValidationError{Fields: map[string]string{
					"due_date": "due_date must be a valid ISO-8601 timestamp",
				}}
			}
			t.DueDate = due
		}
		t.UpdatedAt = now

		if err := tx.Tasks().UpdateTask(ctx, t); err != nil {
			return err
		}

		updated = t
		return nil
	})
	if err != nil {
		return domain.Task{}, mapTaskErr(err)
	}

	return updated, nil
}

// Delete removes an owned task.
func (s *TaskService) Delete(ctx context.Context, ownerID, taskID string) error {
	if err := s.Store.Tasks().DeleteTask(ctx, ownerID, taskID); err != nil {
		return mapTaskErr(err)
	}
	return nil
}

// Toggle flips the completion flag of an owned task. Like Update it
// re-fetches inside a transaction, so two racing toggles end where a
// sequential pair would.
func (s *TaskService) Toggle(ctx context.Context, ownerID, taskID string) (domain.Task, error) {
	var toggled domain.Task
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		t, err := tx.Tasks().GetTaskByID(ctx, ownerID, taskID)
		if err != nil {
			return err
		}

		t.Completed = !t.Completed
		t.UpdatedAt = time.Now().UTC()

		if err := tx.Tasks().UpdateTask(ctx, t); err != nil {
			return err
		}

		toggled = t
		return nil
	})
	if err != nil {
		return domain.Task{}, mapTaskErr(err)
	}

	return toggled, nil
}

func mapTaskErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrTaskNotFound
	}
	return err
}
