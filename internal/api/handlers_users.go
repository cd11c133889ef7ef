package api

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/engine"
)

func (s *Server) handleUserProfile(c *gin.Context) {
	ctx := reqCtx(c)
	user, err := s.svc.ResolveUser(ctx, externalID(c), nil)
	if err != nil {
		s.fail(c, err)
		return
	}
	tasks, err := s.svc.ListTasks(ctx, externalID(c), nil)
	if err != nil {
		s.fail(c, err)
		return
	}

	completed := 0
	for _, t := range tasks {
		if t.Status == string(engine.StatusDone) {
			completed++
		}
	}
	rate := 0.0
	if len(tasks) > 0 {
		rate = math.Round(float64(completed)/float64(len(tasks))*1000) / 10
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id":         user.ExternalID,
		"name":            user.Name,
		"energy":          user.Energy,
		"level":           user.Level,
		"total_tasks":     len(tasks),
		"completed_tasks": completed,
		"completion_rate": rate,
		"created_at":      user.CreatedAt,
	})
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	var req struct {
		Name   *string `json:"name"`
		Energy *int    `json:"energy"`
		Level  *int    `json:"level"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	user, err := s.svc.UpdateUserProfile(reqCtx(c), externalID(c), engine.ProfileUpdate{
		Name:   req.Name,
		Energy: req.Energy,
		Level:  req.Level,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": newUserView(user), "message": "Profile updated successfully"})
}

func (s *Server) handleUserStats(c *gin.Context) {
	stats, err := s.svc.UserStatsFor(reqCtx(c), externalID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	if stats == nil {
		notFound(c, "User not found")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleUserAnalytics(c *gin.Context) {
	ctx := reqCtx(c)
	if _, err := s.svc.ResolveUser(ctx, externalID(c), nil); err != nil {
		s.fail(c, err)
		return
	}
	analysis, err := s.svc.AnalyzeDay(ctx, externalID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

func (s *Server) handleTodayStats(c *gin.Context) {
	stats, err := s.svc.TodayStatsFor(reqCtx(c), externalID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	if stats == nil {
		notFound(c, "User not found")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleDailyStats(c *gin.Context) {
	stats, err := s.svc.DailyStats(reqCtx(c), externalID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	if stats == nil {
		notFound(c, "User not found")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleProductivityStats(c *gin.Context) {
	stats, err := s.svc.ProductivityStatsFor(reqCtx(c), externalID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	if stats == nil {
		notFound(c, "User not found")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleCreateUser(c *gin.Context) {
	name := c.Query("name")
	var namePtr *string
	if name != "" {
		namePtr = &name
	}
	user, err := s.svc.ResolveUser(reqCtx(c), externalID(c), namePtr)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": newUserView(user), "message": "User created successfully"})
}

func (s *Server) handleSyncUser(c *gin.Context) {
	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Username  string `json:"username"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	user, err := s.svc.SyncUserFromMax(reqCtx(c), externalID(c), &engine.MaxProfile{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	if user == nil {
		notFound(c, "User not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": newUserView(user), "message": "User synchronized successfully"})
}

func (s *Server) handleSyncWithBot(c *gin.Context) {
	var req struct {
		MaxUserID string `json:"max_user_id" binding:"required"`
		Username  string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	webID, err := s.svc.EnsureUserSync(reqCtx(c), req.MaxUserID, req.Username)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"external_id": webID, "message": "User synchronized with bot"})
}

func (s *Server) handleBotTasks(c *gin.Context) {
	maxUserID := c.Query("max_user_id")
	tasks, err := s.svc.ListTasks(reqCtx(c), maxUserID, nil)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": taskViews(tasks)})
}

func (s *Server) handleSyncUsers(c *gin.Context) {
	source := c.Query("source_external_id")
	target := c.Query("target_external_id")
	ok, err := s.svc.SyncTasksBetweenUsers(reqCtx(c), source, target)
	if err != nil {
		s.fail(c, err)
		return
	}
	if !ok {
		notFound(c, "Users not found or sync failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Users synchronized successfully"})
}
