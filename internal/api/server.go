// Package api is the gin REST surface over the engine. Handlers stay thin:
// bind, call the service, map the error, shape the response.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/decompose"
	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/engine"
	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/metrics"
)

type Server struct {
	svc    *engine.Service
	dec    *decompose.Decomposer
	log    *slog.Logger
	router *gin.Engine
}

// NewServer wires routes, CORS and metrics. corsOrigins is the fixed origin
// allow-list; all methods and headers are permitted from those origins.
func NewServer(svc *engine.Service, dec *decompose.Decomposer, corsOrigins []string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(metrics.GinMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	s := &Server{svc: svc, dec: dec, log: log, router: router}

	router.GET("/", s.handleRoot)
	router.GET("/health", s.handleHealth)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	tasks := router.Group("/tasks")
	{
		tasks.GET("/list", s.handleListTasks)
		tasks.POST("/create", s.handleCreateTask)
		tasks.POST("/complete", s.handleCompleteTask)
		tasks.PUT("/:id", s.handleUpdateTask)
		tasks.DELETE("/:id", s.handleDeleteTask)
		tasks.GET("/list-by-date", s.handleListTasksByDate)
		tasks.POST("/list-by-date-range", s.handleListTasksByDateRange)
		tasks.POST("/:id/subtasks", s.handleCreateSubtask)
		tasks.GET("/:id/subtasks", s.handleListSubtasks)
		tasks.POST("/:id/subtasks/:subtask_id/complete", s.handleCompleteSubtask)
		tasks.POST("/decompose", s.handleDecompose)
	}

	user := router.Group("/user")
	{
		user.GET("/profile", s.handleUserProfile)
		user.PUT("/profile", s.handleUpdateProfile)
		user.GET("/stats", s.handleUserStats)
		user.GET("/analytics", s.handleUserAnalytics)
		user.GET("/today-stats", s.handleTodayStats)
		user.GET("/daily-stats", s.handleDailyStats)
		user.GET("/productivity-stats", s.handleProductivityStats)
		user.POST("/create", s.handleCreateUser)
		user.POST("/sync", s.handleSyncUser)
		user.POST("/sync-with-bot", s.handleSyncWithBot)
		user.GET("/bot-tasks", s.handleBotTasks)
	}
	router.POST("/sync/users", s.handleSyncUsers)

	kanban := router.Group("/kanban")
	{
		kanban.GET("/projects", s.handleListProjects)
		kanban.POST("/projects", s.handleCreateProject)
		kanban.PUT("/projects/:id", s.handleUpdateProject)
		kanban.DELETE("/projects/:id", s.handleDeleteProject)
		kanban.GET("/projects/:id/stats", s.handleProjectStats)
		kanban.POST("/projects/:id/columns", s.handleCreateColumn)
		kanban.PUT("/projects/:id/columns/reorder", s.handleReorderColumns)
		kanban.PUT("/columns/:id", s.handleUpdateColumn)
		kanban.DELETE("/columns/:id", s.handleDeleteColumn)
		kanban.POST("/columns/:id/cards", s.handleCreateCard)
		kanban.PUT("/columns/:id/cards/reorder", s.handleReorderCards)
		kanban.PUT("/cards/:id", s.handleUpdateCard)
		kanban.DELETE("/cards/:id", s.handleDeleteCard)
	}

	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "TaskBot API", "status": "running"})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "TaskBot API",
	})
}

func reqCtx(c *gin.Context) context.Context { return c.Request.Context() }
