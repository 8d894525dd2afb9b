package app

import (
	"gorm.io/gorm"

	"github.com/sitetrack/sitetrack-backend/internal/pkg/logger"
	"github.com/sitetrack/sitetrack-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	User         services.UserService
	Project      services.ProjectService
	Comment      services.CommentService
	Tag          services.TagService
	Attachment   services.AttachmentService
	Notification services.NotificationService
	Analytics    services.AnalyticsService
	Report       services.ReportService
	SavedFilter  services.SavedFilterService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) Services {
	log.Info("Wiring services...")
	authService := services.NewAuthService(db, log, r.User, r.Session, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	userService := services.NewUserService(db, log, r.User, r.Session)
	projectService := services.NewProjectService(db, log, r.Project, r.History, r.Tag, r.User, r.Notification, r.ActivityLog)
	commentService := services.NewCommentService(db, log, r.Comment, r.Project, r.Notification)
	tagService := services.NewTagService(db, log, r.Tag)
	attachmentService := services.NewAttachmentService(db, log, r.Attachment, r.Project)
	notificationService := services.NewNotificationService(db, log, r.Notification)
	analyticsService := services.NewAnalyticsService(db, log, r.Project, r.ActivityLog, projectService)
	reportService := services.NewReportService(db, log, r.Project, r.SavedReport, analyticsService)
	savedFilterService := services.NewSavedFilterService(db, log, r.SavedFilter)

	return Services{
		Auth:         authService,
		User:         userService,
		Project:      projectService,
		Comment:      commentService,
		Tag:          tagService,
		Attachment:   attachmentService,
		Notification: notificationService,
		Analytics:    analyticsService,
		Report:       reportService,
		SavedFilter:  savedFilterService,
	}
}
