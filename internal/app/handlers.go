package app

import (
	httpH "github.com/sitetrack/sitetrack-backend/internal/http/handlers"
	"github.com/sitetrack/sitetrack-backend/internal/pkg/logger"
)

type Handlers struct {
	Auth         *httpH.AuthHandler
	User         *httpH.UserHandler
	Project      *httpH.ProjectHandler
	Comment      *httpH.CommentHandler
	Tag          *httpH.TagHandler
	Attachment   *httpH.AttachmentHandler
	Notification *httpH.NotificationHandler
	Analytics    *httpH.AnalyticsHandler
	Report       *httpH.ReportHandler
	SavedFilter  *httpH.SavedFilterHandler
	Health       *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:         httpH.NewAuthHandler(s.Auth),
		User:         httpH.NewUserHandler(s.User),
		Project:      httpH.NewProjectHandler(s.Project),
		Comment:      httpH.NewCommentHandler(s.Comment),
		Tag:          httpH.NewTagHandler(s.Tag),
		Attachment:   httpH.NewAttachmentHandler(s.Attachment),
		Notification: httpH.NewNotificationHandler(s.Notification),
		Analytics:    httpH.NewAnalyticsHandler(s.Analytics),
		Report:       httpH.NewReportHandler(s.Report),
		SavedFilter:  httpH.NewSavedFilterHandler(s.SavedFilter),
		Health:       httpH.NewHealthHandler(),
	}
}
