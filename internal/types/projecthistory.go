package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProjectHistory is one immutable audit entry. Rows are inserted in the same
// transaction as the project mutation that warranted them and never updated.
// old/new status and assignee pairs are populated only when that field
// actually changed in the edit; ChangedFields stores the full change-set.
type ProjectHistory struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProjectID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"project_id"`
	Project       *Project       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"-"`
	OldStatus     *string        `gorm:"column:old_status" json:"old_status"`
	NewStatus     *string        `gorm:"column:new_status" json:"new_status"`
	OldAssignedTo *uuid.UUID     `gorm:"type:uuid;column:old_assigned_to" json:"old_assigned_to"`
	NewAssignedTo *uuid.UUID     `gorm:"type:uuid;column:new_assigned_to" json:"new_assigned_to"`
	ChangedFields datatypes.JSON `gorm:"type:jsonb;column:changed_fields" json:"changed_fields"`
	ChangedBy     uuid.UUID      `gorm:"type:uuid;not null;index;column:changed_by" json:"changed_by"`
	ChangeReason  *string        `gorm:"type:text;column:change_reason" json:"change_reason"`
	CreatedAt     time.Time      `gorm:"not null;default:now();index" json:"created_at"`
}

func (ProjectHistory) TableName() string { return "project_history" }
