package types

import (
	"time"

	"github.com/google/uuid"
)

type Tag struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string     `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Color       string     `gorm:"not null;default:#3498db;column:color" json:"color"`
	Description string     `gorm:"type:text;column:description" json:"description"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null;column:created_by" json:"created_by"`
	Projects    []*Project `gorm:"many2many:project_tags;" json:"projects,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
}

func (Tag) TableName() string { return "tags" }
