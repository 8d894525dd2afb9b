package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notification type values.
const (
	NotifyProjectAssigned      = "project_assigned"
	NotifyProjectStatusChanged = "project_status_changed"
	NotifyCommentAdded         = "comment_added"
	NotifyDeadlineApproaching  = "deadline_approaching"
	NotifyProjectCompleted     = "project_completed"
	NotifyNewProject           = "new_project"
)

type Notification struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Type      string         `gorm:"not null;index;column:type" json:"type"`
	Title     string         `gorm:"not null;column:title" json:"title"`
	Message   string         `gorm:"type:text;not null;column:message" json:"message"`
	Data      datatypes.JSON `gorm:"type:jsonb;column:data" json:"data,omitempty"`
	IsRead    bool           `gorm:"not null;default:false;index;column:is_read" json:"is_read"`
	ReadAt    *time.Time     `gorm:"column:read_at" json:"read_at,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:now();index" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
