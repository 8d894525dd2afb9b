package types

import (
	"time"

	"github.com/google/uuid"
)

// Project status values.
const (
	StatusPlanning   = "planning"
	StatusInProgress = "in_progress"
	StatusOnHold     = "on_hold"
	StatusDone       = "done"
	StatusPending    = "pending"
	StatusCancelled  = "cancelled"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPlanning, StatusInProgress, StatusOnHold, StatusDone, StatusPending, StatusCancelled:
		return true
	}
	return false
}

// Project is one tracked site. The site code is the immutable public
// identifier; bulk operations report per-item outcomes against it.
type Project struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SiteCode       string     `gorm:"uniqueIndex;not null;column:site_code" json:"site_code"`
	ProjectName    string     `gorm:"not null;column:project_name" json:"project_name"`
	SiteName       string     `gorm:"not null;column:site_name" json:"site_name"`
	Barangay       string     `gorm:"not null;column:barangay" json:"barangay"`
	Municipality   string     `gorm:"not null;index;column:municipality" json:"municipality"`
	Province       string     `gorm:"not null;index;column:province" json:"province"`
	District       string     `gorm:"column:district" json:"district"`
	Latitude       float64    `gorm:"not null;column:latitude" json:"latitude"`
	Longitude      float64    `gorm:"not null;column:longitude" json:"longitude"`
	ActivationDate time.Time  `gorm:"not null;index;column:activation_date" json:"activation_date"`
	CompletionDate *time.Time `gorm:"column:completion_date" json:"completion_date,omitempty"`
	Status         string     `gorm:"not null;default:planning;index;column:status" json:"status"`
	Notes          string     `gorm:"type:text;column:notes" json:"notes"`
	Progress       int        `gorm:"not null;default:0;column:progress" json:"progress"`
	AssignedTo     *uuid.UUID `gorm:"type:uuid;index;column:assigned_to" json:"assigned_to,omitempty"`
	Assignee       *User      `gorm:"constraint:OnDelete:SET NULL;foreignKey:AssignedTo;references:ID" json:"assignee,omitempty"`
	CreatedBy      uuid.UUID  `gorm:"type:uuid;not null;index;column:created_by" json:"created_by"`
	Creator        *User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:CreatedBy;references:ID" json:"creator,omitempty"`
	Tags           []*Tag     `gorm:"many2many:project_tags;" json:"tags,omitempty"`
	CreatedAt      time.Time  `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Project) TableName() string { return "projects" }
