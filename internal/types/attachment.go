package types

import (
	"time"

	"github.com/google/uuid"
)

type Attachment struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProjectID        uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	Project          *Project  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"-"`
	Filename         string    `gorm:"not null;column:filename" json:"filename"`
	OriginalFilename string    `gorm:"not null;column:original_filename" json:"original_filename"`
	FilePath         string    `gorm:"not null;column:file_path" json:"file_path"`
	FileSize         int64     `gorm:"not null;column:file_size" json:"file_size"`
	FileType         string    `gorm:"not null;column:file_type" json:"file_type"`
	UploadedBy       uuid.UUID `gorm:"type:uuid;not null;index;column:uploaded_by" json:"uploaded_by"`
	Description      string    `gorm:"type:text;column:description" json:"description"`
	CreatedAt        time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Attachment) TableName() string { return "attachments" }
