package engine

import "context"

// CompletionRecord summarizes a completion for callers (bot and API render it
// directly).
type CompletionRecord struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Status   string `json:"status"`
	IsParent bool   `json:"is_parent"`
	ParentID *int64 `json:"parent_id"`
}

// ParentCompletionRecord reports a cascading parent completion.
type ParentCompletionRecord struct {
	ID                int64  `json:"id"`
	Title             string `json:"title"`
	SubtasksCompleted int    `json:"subtasks_completed"`
}

// Progress is the derived parent/subtask completion state.
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Percent   int `json:"percent"`
}

// CompleteTask marks exactly the named task done. It never cascades: a
// subtask completion does not close the parent, and completing a parent here
// leaves its children as they are.
func (s *Service) CompleteTask(ctx context.Context, externalID string, taskID int64) (*CompletionRecord, error) {
	user, err := s.LookupUser(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	task, err := s.tasks.GetForUser(ctx, taskID, user.ID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, nil
	}
	if err := s.tasks.SetStatus(ctx, task.ID, string(StatusDone)); err != nil {
		return nil, err
	}
	return &CompletionRecord{
		ID:       task.ID,
		Title:    task.Title,
		Status:   string(StatusDone),
		IsParent: task.IsParent,
		ParentID: task.ParentID,
	}, nil
}

// CompleteSubtask completes a child addressed through its parent; nil when
// the pair does not match an owned subtask.
func (s *Service) CompleteSubtask(ctx context.Context, externalID string, parentID, subtaskID int64) (*CompletionRecord, error) {
	user, err := s.LookupUser(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	sub, err := s.tasks.GetForUser(ctx, subtaskID, user.ID)
	if err != nil {
		return nil, err
	}
	if sub == nil || sub.ParentID == nil || *sub.ParentID != parentID {
		return nil, nil
	}
	if err := s.tasks.SetStatus(ctx, sub.ID, string(StatusDone)); err != nil {
		return nil, err
	}
	return &CompletionRecord{
		ID:       sub.ID,
		Title:    sub.Title,
		Status:   string(StatusDone),
		ParentID: sub.ParentID,
	}, nil
}

// CompleteParentTask marks the parent and every existing subtask done in one
// transaction, regardless of their prior state. This is the only path that
// keeps parent and children in sync.
func (s *Service) CompleteParentTask(ctx context.Context, taskID int64) (*ParentCompletionRecord, error) {
	parent, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, nil
	}
	n, err := s.tasks.CompleteWithChildren(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return &ParentCompletionRecord{
		ID:                parent.ID,
		Title:             parent.Title,
		SubtasksCompleted: n,
	}, nil
}

// TaskProgress derives the completion state of a parent. A parent already
// marked done short-circuits to 100% without recounting children. Total
// reports 1 for a childless done parent so callers never see 0/0 at 100%.
func (s *Service) TaskProgress(ctx context.Context, taskID int64) (Progress, error) {
	parent, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		return Progress{}, err
	}
	if parent == nil {
		return Progress{}, nil
	}

	children, err := s.tasks.ListChildren(ctx, taskID)
	if err != nil {
		return Progress{}, err
	}

	if parent.Status == string(StatusDone) {
		total := len(children)
		if total == 0 {
			total = 1
		}
		return Progress{Completed: total, Total: total, Percent: 100}, nil
	}

	if len(children) == 0 {
		return Progress{}, nil
	}
	completed := 0
	for _, c := range children {
		if c.Status == string(StatusDone) {
			completed++
		}
	}
	return Progress{
		Completed: completed,
		Total:     len(children),
		Percent:   completed * 100 / len(children),
	}, nil
}
