package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SavedFilter struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Name      string         `gorm:"not null;index;column:name" json:"name"`
	Filters   datatypes.JSON `gorm:"type:jsonb;not null;column:filters" json:"filters"`
	IsDefault bool           `gorm:"not null;default:false;column:is_default" json:"is_default"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (SavedFilter) TableName() string { return "saved_filters" }
