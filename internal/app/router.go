package app

import (
	sthttp "github.com/sitetrack/sitetrack-backend/internal/http"
	"github.com/sitetrack/sitetrack-backend/internal/pkg/logger"
)

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *sthttp.Server {
	return sthttp.NewServer(sthttp.RouterConfig{
		Log:            log,
		AllowedOrigins: cfg.AllowedOrigins,

		AuthMiddleware: middleware.Auth,

		AuthHandler:         handlers.Auth,
		UserHandler:         handlers.User,
		ProjectHandler:      handlers.Project,
		CommentHandler:      handlers.Comment,
		TagHandler:          handlers.Tag,
		AttachmentHandler:   handlers.Attachment,
		NotificationHandler: handlers.Notification,
		AnalyticsHandler:    handlers.Analytics,
		ReportHandler:       handlers.Report,
		SavedFilterHandler:  handlers.SavedFilter,

		HealthHandler: handlers.Health,
	})
}
