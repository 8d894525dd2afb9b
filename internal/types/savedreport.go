package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Saved report type values.
const (
	ReportSummary  = "summary"
	ReportProvince = "province"
	ReportTimeline = "timeline"
	ReportStatus   = "status"
	ReportCustom   = "custom"
)

func ValidReportType(t string) bool {
	switch t {
	case ReportSummary, ReportProvince, ReportTimeline, ReportStatus, ReportCustom:
		return true
	}
	return false
}

type SavedReport struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User       *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Name       string         `gorm:"not null;column:name" json:"name"`
	ReportType string         `gorm:"not null;index;column:report_type" json:"report_type"`
	Config     datatypes.JSON `gorm:"type:jsonb;not null;column:config" json:"config"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (SavedReport) TableName() string { return "saved_reports" }
