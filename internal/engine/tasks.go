package engine

import (
	"context"
	"strings"
	"time"

	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/storage"
)

type CreateTaskInput struct {
	ExternalID       string
	Title            string
	EstimatedMinutes int
	Difficulty       int
	TaskDate         *time.Time
	ParentID         *int64
	IsParent         bool
}

// CreateTask adds a task for the (lazily created) user. The target date
// defaults to now and may not fall on a day before the current UTC day.
func (s *Service) CreateTask(ctx context.Context, in CreateTaskInput) (*storage.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ValidationError{Msg: "title is required"}
	}

	user, err := s.ResolveUser(ctx, in.ExternalID, nil)
	if err != nil {
		return nil, err
	}

	taskDate := time.Now().UTC()
	if in.TaskDate != nil {
		taskDate = in.TaskDate.UTC()
		if err := rejectPastDate(taskDate); err != nil {
			return nil, err
		}
	}

	difficulty := in.Difficulty
	if difficulty == 0 {
		difficulty = 1
	}

	id, err := s.tasks.Insert(ctx, storage.TaskInsert{
		UserID:           user.ID,
		Title:            title,
		Difficulty:       difficulty,
		Status:           string(StatusForEstimate(in.EstimatedMinutes)),
		EstimatedMinutes: in.EstimatedMinutes,
		TaskDate:         taskDate,
		ParentID:         in.ParentID,
		IsParent:         in.IsParent,
	})
	if err != nil {
		return nil, err
	}
	return s.tasks.Get(ctx, id)
}

// CreateSubtask attaches a child to parentID. Three independent rejections:
// missing parent, completed parent, and a parent that is itself a subtask
// (the hierarchy never exceeds one level). The parent lookup is scoped to the
// caller, so another user's task reads as missing. The child inherits the
// parent's target date and the parent's is_parent flag is set idempotently.
func (s *Service) CreateSubtask(ctx context.Context, externalID string, parentID int64, title string, estimatedMinutes, difficulty int) (*storage.Task, error) {
	user, err := s.ResolveUser(ctx, externalID, nil)
	if err != nil {
		return nil, err
	}
	parent, err := s.tasks.GetForUser(ctx, parentID, user.ID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, NotFoundError{Resource: "parent task"}
	}
	if parent.Status == string(StatusDone) {
		return nil, ValidationError{Msg: "cannot add subtasks to a completed task"}
	}
	if parent.IsSubtask() {
		return nil, ValidationError{Msg: "cannot add subtasks to another subtask"}
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ValidationError{Msg: "title is required"}
	}
	if difficulty == 0 {
		difficulty = 1
	}

	// The inherited date is taken as-is: the parent passed validation when it
	// was created, and re-checking here would strand parents with older dates.
	pid := parentID
	id, err := s.tasks.Insert(ctx, storage.TaskInsert{
		UserID:           user.ID,
		Title:            title,
		Difficulty:       difficulty,
		Status:           string(StatusForEstimate(estimatedMinutes)),
		EstimatedMinutes: estimatedMinutes,
		TaskDate:         parent.TaskDate,
		ParentID:         &pid,
	})
	if err != nil {
		return nil, err
	}

	if !parent.IsParent {
		if err := s.tasks.SetParentFlag(ctx, parent.ID, true); err != nil {
			return nil, err
		}
	}
	return s.tasks.Get(ctx, id)
}

// ListTasks returns the user's tasks, optionally filtered to targetDate's
// calendar day, newest target date first.
func (s *Service) ListTasks(ctx context.Context, externalID string, targetDate *time.Time) ([]storage.Task, error) {
	user, err := s.LookupUser(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	if targetDate != nil {
		start, end := dayWindow(*targetDate)
		return s.tasks.ListByUserBetween(ctx, user.ID, start, end)
	}
	return s.tasks.ListByUser(ctx, user.ID)
}

// ListTasksByDateRange is inclusive on both calendar days.
func (s *Service) ListTasksByDateRange(ctx context.Context, externalID string, start, end time.Time) ([]storage.Task, error) {
	user, err := s.LookupUser(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	s0, _ := dayWindow(start)
	_, e1 := dayWindow(end)
	return s.tasks.ListByUserBetween(ctx, user.ID, s0, e1)
}

// ListSubtasks returns the children of parentID ordered by id, empty when the
// parent does not belong to the caller.
func (s *Service) ListSubtasks(ctx context.Context, externalID string, parentID int64) ([]storage.Task, error) {
	user, err := s.LookupUser(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	parent, err := s.tasks.GetForUser(ctx, parentID, user.ID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, nil
	}
	return s.tasks.ListChildren(ctx, parentID)
}

// UpdateTaskInput carries PATCH semantics: nil fields are untouched.
type UpdateTaskInput struct {
	Title            *string
	Description      *string
	EstimatedMinutes *int
	Difficulty       *int
	Status           *string
	TaskDate         *time.Time
}

func (s *Service) UpdateTask(ctx context.Context, externalID string, taskID int64, upd UpdateTaskInput) (*storage.Task, error) {
	user, err := s.LookupUser(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFoundError{Resource: "task"}
	}
	task, err := s.tasks.GetForUser(ctx, taskID, user.ID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, NotFoundError{Resource: "task"}
	}

	if upd.Title != nil {
		task.Title = *upd.Title
	}
	if upd.Description != nil {
		task.Description = upd.Description
	}
	if upd.EstimatedMinutes != nil {
		task.EstimatedMinutes = *upd.EstimatedMinutes
	}
	if upd.Difficulty != nil {
		task.Difficulty = *upd.Difficulty
	}
	if upd.Status != nil {
		if !Status(*upd.Status).IsValid() {
			return nil, ValidationError{Msg: "unknown status: " + *upd.Status}
		}
		task.Status = *upd.Status
	}
	if upd.TaskDate != nil {
		if err := rejectPastDate(*upd.TaskDate); err != nil {
			return nil, err
		}
		task.TaskDate = upd.TaskDate.UTC()
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return s.tasks.Get(ctx, task.ID)
}

// DeleteTask removes an owned task, cascading to its subtasks. False when the
// task is missing or not the caller's.
func (s *Service) DeleteTask(ctx context.Context, externalID string, taskID int64) (bool, error) {
	user, err := s.LookupUser(ctx, externalID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}
	task, err := s.tasks.GetForUser(ctx, taskID, user.ID)
	if err != nil {
		return false, err
	}
	if task == nil {
		return false, nil
	}
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return false, err
	}
	return true, nil
}

// GetTaskByID is owner-scoped: the caller only ever sees their own tasks.
func (s *Service) GetTaskByID(ctx context.Context, externalID string, taskID int64) (*storage.Task, error) {
	user, err := s.LookupUser(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return s.tasks.GetForUser(ctx, taskID, user.ID)
}
