package types

import (
	"time"

	"github.com/google/uuid"
)

// Comment replies reference their parent by id only; threads are resolved by
// lookup, never by embedded pointers.
type Comment struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProjectID uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	Project   *Project   `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"-"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Content   string     `gorm:"type:text;not null;column:content" json:"content"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index;column:parent_id" json:"parent_id,omitempty"`
	IsEdited  bool       `gorm:"not null;default:false;column:is_edited" json:"is_edited"`
	CreatedAt time.Time  `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Comment) TableName() string { return "comments" }
