package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/engine"
)

func externalID(c *gin.Context) string {
	return c.Query("external_id")
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.svc.ListTasks(reqCtx(c), externalID(c), nil)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": taskViews(tasks), "count": len(tasks)})
}

type createTaskRequest struct {
	Title            string `json:"title" binding:"required"`
	EstimatedMinutes int    `json:"estimated_minutes"`
	Difficulty       int    `json:"difficulty"`
	TaskDate         string `json:"task_date"`
	ParentTaskID     *int64 `json:"parent_task_id"`
}

// handleCreateTask also covers subtask creation: a request carrying
// parent_task_id attaches to that parent instead of creating a root task.
func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	var taskDate *time.Time
	if req.TaskDate != "" {
		t, err := engine.ValidateDate(req.TaskDate)
		if err != nil {
			s.fail(c, err)
			return
		}
		taskDate = &t
	}

	if req.ParentTaskID != nil {
		sub, err := s.svc.CreateSubtask(reqCtx(c), externalID(c), *req.ParentTaskID, req.Title, req.EstimatedMinutes, req.Difficulty)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"task": newTaskView(sub), "message": "Task created successfully"})
		return
	}

	task, err := s.svc.CreateTask(reqCtx(c), engine.CreateTaskInput{
		ExternalID:       externalID(c),
		Title:            req.Title,
		EstimatedMinutes: req.EstimatedMinutes,
		Difficulty:       req.Difficulty,
		TaskDate:         taskDate,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": newTaskView(task), "message": "Task created successfully"})
}

func (s *Server) handleCompleteTask(c *gin.Context) {
	var req struct {
		TaskID int64 `json:"task_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	rec, err := s.svc.CompleteTask(reqCtx(c), externalID(c), req.TaskID)
	if err != nil {
		s.fail(c, err)
		return
	}
	if rec == nil {
		notFound(c, "Task not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": rec, "message": "Task completed successfully"})
}

type updateTaskRequest struct {
	Title            *string `json:"title"`
	Description      *string `json:"description"`
	EstimatedMinutes *int    `json:"estimated_minutes"`
	Difficulty       *int    `json:"difficulty"`
	Status           *string `json:"status"`
	TaskDate         *string `json:"task_date"`
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	upd := engine.UpdateTaskInput{
		Title:            req.Title,
		Description:      req.Description,
		EstimatedMinutes: req.EstimatedMinutes,
		Difficulty:       req.Difficulty,
		Status:           req.Status,
	}
	if req.TaskDate != nil && *req.TaskDate != "" {
		t, err := engine.ValidateDate(*req.TaskDate)
		if err != nil {
			s.fail(c, err)
			return
		}
		upd.TaskDate = &t
	}

	task, err := s.svc.UpdateTask(reqCtx(c), externalID(c), id, upd)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": newTaskView(task), "message": "Task updated successfully"})
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	deleted, err := s.svc.DeleteTask(reqCtx(c), externalID(c), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	if !deleted {
		notFound(c, "Task not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func (s *Server) handleListTasksByDate(c *gin.Context) {
	date := c.Query("date")
	target, err := engine.ParseDate(date)
	if err != nil {
		s.fail(c, err)
		return
	}
	tasks, err := s.svc.ListTasks(reqCtx(c), externalID(c), &target)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": taskViews(tasks), "count": len(tasks), "date": date})
}

func (s *Server) handleListTasksByDateRange(c *gin.Context) {
	var req struct {
		StartDate string `json:"start_date" binding:"required"`
		EndDate   string `json:"end_date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	start, err := engine.ParseDate(req.StartDate)
	if err != nil {
		s.fail(c, err)
		return
	}
	end, err := engine.ParseDate(req.EndDate)
	if err != nil {
		s.fail(c, err)
		return
	}
	tasks, err := s.svc.ListTasksByDateRange(reqCtx(c), externalID(c), start, end)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tasks":      taskViews(tasks),
		"count":      len(tasks),
		"start_date": req.StartDate,
		"end_date":   req.EndDate,
	})
}

func (s *Server) handleCreateSubtask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Title            string `json:"title" binding:"required"`
		EstimatedMinutes int    `json:"estimated_minutes"`
		Difficulty       int    `json:"difficulty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	sub, err := s.svc.CreateSubtask(reqCtx(c), externalID(c), id, req.Title, req.EstimatedMinutes, req.Difficulty)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subtask": newTaskView(sub), "message": "Subtask created successfully"})
}

func (s *Server) handleListSubtasks(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	subs, err := s.svc.ListSubtasks(reqCtx(c), externalID(c), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subtasks": taskViews(subs), "count": len(subs)})
}

func (s *Server) handleCompleteSubtask(c *gin.Context) {
	parentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	subID, ok := pathID(c, "subtask_id")
	if !ok {
		return
	}
	rec, err := s.svc.CompleteSubtask(reqCtx(c), externalID(c), parentID, subID)
	if err != nil {
		s.fail(c, err)
		return
	}
	if rec == nil {
		notFound(c, "Subtask not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"subtask": rec, "message": "Subtask completed successfully"})
}

func (s *Server) handleDecompose(c *gin.Context) {
	var req struct {
		Title    string `json:"title" binding:"required"`
		TaskDate string `json:"task_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.TaskDate != "" {
		if _, err := engine.ValidateDate(req.TaskDate); err != nil {
			s.fail(c, err)
			return
		}
	}
	res, err := s.dec.Decompose(reqCtx(c), externalID(c), req.Title)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"steps":   res.Steps,
		"message": "Task decomposed into " + strconv.Itoa(len(res.Steps)) + " subtasks",
	})
}
