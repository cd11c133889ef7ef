package storage

import "time"

type User struct {
	ID         int64
	ExternalID string
	Name       *string
	CreatedAt  time.Time
	Energy     int
	Level      int
}

type Task struct {
	ID               int64
	UserID           int64
	Title            string
	Description      *string
	Difficulty       int
	Status           string
	EstimatedMinutes int
	CreatedAt        time.Time
	TaskDate         time.Time
	ParentID         *int64
	IsParent         bool
}

// IsSubtask reports whether the task is a child in the one-level hierarchy.
func (t *Task) IsSubtask() bool { return t.ParentID != nil }

type Project struct {
	ID          int64
	UserID      int64
	Title       string
	Description *string
	Color       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type BoardColumn struct {
	ID        int64
	ProjectID int64
	Title     string
	Position  int
	Color     string
	CreatedAt time.Time
}

type BoardCard struct {
	ID               int64
	ColumnID         int64
	Title            string
	Description      *string
	Position         int
	Color            string
	Tags             *string
	DueDate          *time.Time
	EstimatedMinutes int
	Priority         int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
