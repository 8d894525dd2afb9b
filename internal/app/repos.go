package app

import (
	"gorm.io/gorm"

	"github.com/sitetrack/sitetrack-backend/internal/pkg/logger"
	"github.com/sitetrack/sitetrack-backend/internal/repos"
)

type Repos struct {
	User         repos.UserRepo
	Session      repos.SessionRepo
	Project      repos.ProjectRepo
	History      repos.ProjectHistoryRepo
	Tag          repos.TagRepo
	Comment      repos.CommentRepo
	Attachment   repos.AttachmentRepo
	Notification repos.NotificationRepo
	ActivityLog  repos.ActivityLogRepo
	SavedFilter  repos.SavedFilterRepo
	SavedReport  repos.SavedReportRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:         repos.NewUserRepo(db, log),
		Session:      repos.NewSessionRepo(db, log),
		Project:      repos.NewProjectRepo(db, log),
		History:      repos.NewProjectHistoryRepo(db, log),
		Tag:          repos.NewTagRepo(db, log),
		Comment:      repos.NewCommentRepo(db, log),
		Attachment:   repos.NewAttachmentRepo(db, log),
		Notification: repos.NewNotificationRepo(db, log),
		ActivityLog:  repos.NewActivityLogRepo(db, log),
		SavedFilter:  repos.NewSavedFilterRepo(db, log),
		SavedReport:  repos.NewSavedReportRepo(db, log),
	}
}
