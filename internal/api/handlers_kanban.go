package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/engine"
)

func (s *Server) handleListProjects(c *gin.Context) {
	views, err := s.svc.ListProjectViews(reqCtx(c), externalID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	if views == nil {
		notFound(c, "User not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": views})
}

func (s *Server) handleCreateProject(c *gin.Context) {
	var req struct {
		Title       string  `json:"title" binding:"required"`
		Description *string `json:"description"`
		Color       string  `json:"color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	project, err := s.svc.CreateProject(reqCtx(c), engine.CreateProjectInput{
		ExternalID:  externalID(c),
		Title:       req.Title,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	view, err := s.svc.ProjectDetails(reqCtx(c), externalID(c), project.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": view, "message": "Project created successfully"})
}

func (s *Server) handleUpdateProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Color       *string `json:"color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	project, err := s.svc.UpdateProject(reqCtx(c), externalID(c), id, req.Title, req.Description, req.Color)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"project": gin.H{
			"id":          project.ID,
			"title":       project.Title,
			"description": project.Description,
			"color":       project.Color,
		},
		"message": "Project updated successfully",
	})
}

func (s *Server) handleDeleteProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	deleted, err := s.svc.DeleteProject(reqCtx(c), externalID(c), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	if !deleted {
		notFound(c, "Project not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

func (s *Server) handleProjectStats(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	stats, err := s.svc.ProjectStatsFor(reqCtx(c), externalID(c), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleCreateColumn(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Title string `json:"title" binding:"required"`
		Color string `json:"color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	column, err := s.svc.CreateColumn(reqCtx(c), externalID(c), id, req.Title, req.Color)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"column": gin.H{
			"id":       column.ID,
			"title":    column.Title,
			"color":    column.Color,
			"position": column.Position,
		},
		"message": "Column created successfully",
	})
}

func (s *Server) handleReorderColumns(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Columns []engine.ReorderEntry `json:"columns" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := s.svc.ReorderColumns(reqCtx(c), externalID(c), id, req.Columns); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Columns reordered successfully"})
}

func (s *Server) handleUpdateColumn(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Title *string `json:"title"`
		Color *string `json:"color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	column, err := s.svc.UpdateColumn(reqCtx(c), externalID(c), id, req.Title, req.Color)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"column": gin.H{
			"id":    column.ID,
			"title": column.Title,
			"color": column.Color,
		},
		"message": "Column updated successfully",
	})
}

func (s *Server) handleDeleteColumn(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	deleted, err := s.svc.DeleteColumn(reqCtx(c), externalID(c), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	if !deleted {
		notFound(c, "Column not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Column deleted successfully"})
}

func (s *Server) handleCreateCard(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Title            string   `json:"title" binding:"required"`
		Description      *string  `json:"description"`
		Color            string   `json:"color"`
		Tags             []string `json:"tags"`
		DueDate          *string  `json:"due_date"`
		EstimatedMinutes int      `json:"estimated_minutes"`
		Priority         int      `json:"priority"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	var due *time.Time
	if req.DueDate != nil && *req.DueDate != "" {
		t, err := engine.ParseDate(*req.DueDate)
		if err != nil {
			s.fail(c, err)
			return
		}
		due = &t
	}

	card, err := s.svc.CreateCard(reqCtx(c), engine.CreateCardInput{
		ExternalID:       externalID(c),
		ColumnID:         id,
		Title:            req.Title,
		Description:      req.Description,
		Color:            req.Color,
		Tags:             req.Tags,
		DueDate:          due,
		EstimatedMinutes: req.EstimatedMinutes,
		Priority:         req.Priority,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"card": engine.NewCardView(card), "message": "Card created successfully"})
}

func (s *Server) handleReorderCards(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Cards []engine.ReorderEntry `json:"cards" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := s.svc.ReorderCards(reqCtx(c), externalID(c), id, req.Cards); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cards reordered successfully"})
}

func (s *Server) handleUpdateCard(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Title            *string  `json:"title"`
		Description      *string  `json:"description"`
		Color            *string  `json:"color"`
		Tags             []string `json:"tags"`
		DueDate          *string  `json:"due_date"`
		EstimatedMinutes *int     `json:"estimated_minutes"`
		Priority         *int     `json:"priority"`
		ColumnID         *int64   `json:"column_id"`
		Position         *int     `json:"position"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	upd := engine.UpdateCardInput{
		Title:            req.Title,
		Description:      req.Description,
		Color:            req.Color,
		Tags:             req.Tags,
		EstimatedMinutes: req.EstimatedMinutes,
		Priority:         req.Priority,
		ColumnID:         req.ColumnID,
		Position:         req.Position,
	}
	if req.DueDate != nil && *req.DueDate != "" {
		t, err := engine.ParseDate(*req.DueDate)
		if err != nil {
			s.fail(c, err)
			return
		}
		upd.DueDate = &t
	}

	card, err := s.svc.UpdateCard(reqCtx(c), externalID(c), id, upd)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"card": engine.NewCardView(card), "message": "Card updated successfully"})
}

func (s *Server) handleDeleteCard(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	deleted, err := s.svc.DeleteCard(reqCtx(c), externalID(c), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	if !deleted {
		notFound(c, "Card not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Card deleted successfully"})
}
