package api

import (
	"context"
	"net/http"
	"time"

	"worklog/app"
	"worklog/models"
	"worklog/ports"

	"github.com/gin-gonic/gin"
)

// UsageReader reads a user's recent token usage
type UsageReader interface {
	LastDays(ctx context.Context, userID string, days int) (*models.UserUsageSummary, error)
}

// Services are the application services the API exposes
type Services struct {
	Identity ports.IdentityResolver
	Users    *app.UserService
	Logs     *app.LogService
	Tasks    *app.TaskService
	Reports  *app.ReportService
	Calendar *app.CalendarService
	Usage    UsageReader
	SyncHub  *SSEHub

	// Now defaults to time.Now
	Now func() time.Time
}

// Server is the JSON API
type Server struct {
	router *gin.Engine
	svc    Services
}

// NewServer builds the router and registers every route
func NewServer(svc Services) *Server {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	if svc.Now == nil {
		svc.Now = time.Now
	}

	s := &Server{router: router, svc: svc}
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler for the API
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	api.Use(RequireIdentity(s.svc.Identity, s.svc.Users))

	logs := api.Group("/logs")
	{
		logs.GET("", s.handleListLogs)
		logs.POST("", s.handleCreateLog)
		logs.GET("/stats", s.handleLogStats)
		logs.GET("/export", s.handleExport)
		logs.PUT("/:id", s.handleUpdateLog)
		logs.DELETE("/:id", s.handleDeleteLog)
	}

	tasks := api.Group("/tasks")
	{
		tasks.GET("", s.handleListTasks)
		tasks.POST("", s.handleCreateTask)
		tasks.PUT("/:id", s.handleUpdateTask)
		tasks.DELETE("/:id", s.handleDeleteTask)
		tasks.POST("/:id/log", s.handleCompleteTask)
	}

	api.POST("/report", s.handleGenerateReport)
	api.GET("/reports", s.handleListReports)
	api.GET("/reports/:id", s.handleGetReport)

	api.POST("/user/update-name", s.handleUpdateName)
	api.GET("/user/me", s.handleMe)

	api.GET("/calendar/events", s.handleCalendarEvents)
	api.GET("/calendar/status", s.handleCalendarStatus)
	if s.svc.SyncHub != nil {
		api.GET("/calendar/sync/stream", s.svc.SyncHub.HandleSSE)
	}

	api.GET("/usage", s.handleUsage)
}

func (s *Server) today() string {
	return s.svc.Now().UTC().Format("2006-01-02")
}
