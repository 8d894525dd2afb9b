package http

import (
	"github.com/gin-gonic/gin"

	"github.com/sitetrack/sitetrack-backend/internal/authz"
	httpH "github.com/sitetrack/sitetrack-backend/internal/http/handlers"
	httpMW "github.com/sitetrack/sitetrack-backend/internal/http/middleware"
	"github.com/sitetrack/sitetrack-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AllowedOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	AuthHandler         *httpH.AuthHandler
	UserHandler         *httpH.UserHandler
	ProjectHandler      *httpH.ProjectHandler
	CommentHandler      *httpH.CommentHandler
	TagHandler          *httpH.TagHandler
	AttachmentHandler   *httpH.AttachmentHandler
	NotificationHandler *httpH.NotificationHandler
	AnalyticsHandler    *httpH.AnalyticsHandler
	ReportHandler       *httpH.ReportHandler
	SavedFilterHandler  *httpH.SavedFilterHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api/v1")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/auth/register", cfg.AuthHandler.Register)
			api.POST("/auth/login", cfg.AuthHandler.Login)
			api.POST("/auth/token/refresh", cfg.AuthHandler.Refresh)
		}
	}

	protected := api.Group("/")
	{
		editorOnly := gin.HandlerFunc(func(c *gin.Context) { c.Next() })
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
			editorOnly = cfg.AuthMiddleware.RequireRole(authz.RoleAdmin, authz.RoleEditor)
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.GET("/auth/me", cfg.AuthHandler.GetMe)
			protected.POST("/auth/logout", cfg.AuthHandler.Logout)
		}

		// Users
		if cfg.UserHandler != nil {
			protected.GET("/users", cfg.UserHandler.ListUsers)
			protected.GET("/users/:id", cfg.UserHandler.GetUser)
			protected.PUT("/users/:id", cfg.UserHandler.UpdateUser)
			protected.DELETE("/users/:id", cfg.UserHandler.DeleteUser)
		}

		// Projects
		if cfg.ProjectHandler != nil {
			protected.GET("/projects", cfg.ProjectHandler.ListProjects)
			protected.POST("/projects", editorOnly, cfg.ProjectHandler.CreateProject)
			protected.GET("/projects/map/all", cfg.ProjectHandler.ListForMap)
			protected.GET("/projects/stats", cfg.ProjectHandler.Stats)
			protected.POST("/projects/bulk", editorOnly, cfg.ProjectHandler.BulkAction)
			protected.GET("/projects/:id", cfg.ProjectHandler.GetProject)
			protected.PUT("/projects/:id", editorOnly, cfg.ProjectHandler.UpdateProject)
			protected.DELETE("/projects/:id", editorOnly, cfg.ProjectHandler.DeleteProject)
			protected.GET("/projects/:id/history", cfg.ProjectHandler.ListHistory)
		}

		// Comments
		if cfg.CommentHandler != nil {
			protected.GET("/comments/project/:id", cfg.CommentHandler.ListProjectComments)
			protected.POST("/comments", cfg.CommentHandler.CreateComment)
			protected.PUT("/comments/:id", cfg.CommentHandler.UpdateComment)
			protected.DELETE("/comments/:id", cfg.CommentHandler.DeleteComment)
		}

		// Tags
		if cfg.TagHandler != nil {
			protected.GET("/tags", cfg.TagHandler.ListTags)
			protected.POST("/tags", editorOnly, cfg.TagHandler.CreateTag)
			protected.GET("/tags/:id", cfg.TagHandler.GetTag)
			protected.PUT("/tags/:id", editorOnly, cfg.TagHandler.UpdateTag)
			protected.DELETE("/tags/:id", editorOnly, cfg.TagHandler.DeleteTag)
			protected.GET("/tags/:id/projects", cfg.TagHandler.ListTagProjects)
		}

		// Attachments
		if cfg.AttachmentHandler != nil {
			protected.GET("/attachments/project/:id", cfg.AttachmentHandler.ListProjectAttachments)
			protected.POST("/attachments", cfg.AttachmentHandler.CreateAttachment)
			protected.DELETE("/attachments/:id", cfg.AttachmentHandler.DeleteAttachment)
		}

		// Notifications
		if cfg.NotificationHandler != nil {
			protected.GET("/notifications", cfg.NotificationHandler.ListNotifications)
			protected.GET("/notifications/unread/count", cfg.NotificationHandler.UnreadCount)
			protected.GET("/notifications/:id", cfg.NotificationHandler.GetNotification)
			protected.PUT("/notifications/:id", cfg.NotificationHandler.UpdateNotification)
			protected.PUT("/notifications/:id/read", cfg.NotificationHandler.MarkRead)
			protected.PUT("/notifications/read-all", cfg.NotificationHandler.MarkAllRead)
			protected.DELETE("/notifications/:id", cfg.NotificationHandler.DeleteNotification)
		}

		// Analytics
		if cfg.AnalyticsHandler != nil {
			protected.GET("/analytics/dashboard", cfg.AnalyticsHandler.Dashboard)
			protected.GET("/analytics/heatmap", cfg.AnalyticsHandler.HeatMap)
			protected.GET("/analytics/trends", cfg.AnalyticsHandler.Trends)
			protected.GET("/analytics/activity-feed", cfg.AnalyticsHandler.ActivityFeed)
			protected.GET("/analytics/province-performance", cfg.AnalyticsHandler.ProvincePerformance)
			protected.GET("/analytics/district-performance", cfg.AnalyticsHandler.DistrictPerformance)
			protected.GET("/analytics/completion-rate", cfg.AnalyticsHandler.CompletionRate)
		}

		// Reports
		if cfg.ReportHandler != nil {
			protected.GET("/reports/summary", cfg.ReportHandler.Summary)
			protected.GET("/reports/province/:province", cfg.ReportHandler.Province)
			protected.GET("/reports/timeline", cfg.ReportHandler.Timeline)
			protected.GET("/reports/status", cfg.ReportHandler.StatusBreakdown)
			protected.GET("/reports/saved", cfg.ReportHandler.ListSavedReports)
			protected.POST("/reports/saved", cfg.ReportHandler.SaveReport)
			protected.DELETE("/reports/saved/:id", cfg.ReportHandler.DeleteSavedReport)
		}

		// Saved filters
		if cfg.SavedFilterHandler != nil {
			protected.GET("/filters", cfg.SavedFilterHandler.ListFilters)
			protected.POST("/filters", cfg.SavedFilterHandler.CreateFilter)
			protected.PUT("/filters/:id", cfg.SavedFilterHandler.UpdateFilter)
			protected.DELETE("/filters/:id", cfg.SavedFilterHandler.DeleteFilter)
		}
	}

	return r
}
