package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ActivityLog is the global append-only activity feed. UserID is nullable so
// entries survive user deletion.
type ActivityLog struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     *uuid.UUID     `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action     string         `gorm:"not null;column:action" json:"action"`
	EntityType string         `gorm:"not null;column:entity_type" json:"entity_type"`
	EntityID   uuid.UUID      `gorm:"type:uuid;not null;column:entity_id" json:"entity_id"`
	Details    datatypes.JSON `gorm:"type:jsonb;column:details" json:"details,omitempty"`
	IPAddress  string         `gorm:"column:ip_address" json:"ip_address,omitempty"`
	UserAgent  string         `gorm:"type:text;column:user_agent" json:"user_agent,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;default:now();index" json:"created_at"`
}

func (ActivityLog) TableName() string { return "activity_log" }
