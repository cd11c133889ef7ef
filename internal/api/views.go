package api

import (
	"time"

	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/storage"
)

// taskView is the wire shape of a task; storage rows stay tag-free.
type taskView struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	Description      *string   `json:"description"`
	Difficulty       int       `json:"difficulty"`
	Status           string    `json:"status"`
	EstimatedMinutes int       `json:"estimated_minutes"`
	CreatedAt        time.Time `json:"created_at"`
	TaskDate         time.Time `json:"task_date"`
	ParentID         *int64    `json:"parent_id"`
	IsParent         bool      `json:"is_parent"`
}

func newTaskView(t *storage.Task) taskView {
	return taskView{
		ID:               t.ID,
		Title:            t.Title,
		Description:      t.Description,
		Difficulty:       t.Difficulty,
		Status:           t.Status,
		EstimatedMinutes: t.EstimatedMinutes,
		CreatedAt:        t.CreatedAt,
		TaskDate:         t.TaskDate,
		ParentID:         t.ParentID,
		IsParent:         t.IsParent,
	}
}

func taskViews(tasks []storage.Task) []taskView {
	out := make([]taskView, 0, len(tasks))
	for i := range tasks {
		out = append(out, newTaskView(&tasks[i]))
	}
	return out
}

type userView struct {
	ExternalID string  `json:"external_id"`
	Name       *string `json:"name"`
	Energy     int     `json:"energy"`
	Level      int     `json:"level"`
}

func newUserView(u *storage.User) userView {
	return userView{ExternalID: u.ExternalID, Name: u.Name, Energy: u.Energy, Level: u.Level}
}
