package types

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Username     string     `gorm:"uniqueIndex;not null;column:username" json:"username"`
	Email        string     `gorm:"uniqueIndex;not null;column:email" json:"email"`
	PasswordHash string     `gorm:"not null;column:password_hash" json:"-"`
	FullName     string     `gorm:"column:full_name" json:"full_name"`
	Role         string     `gorm:"not null;default:viewer;index;column:role" json:"role"`
	AvatarURL    string     `gorm:"column:avatar_url" json:"avatar_url"`
	IsActive     bool       `gorm:"not null;default:true;column:is_active" json:"is_active"`
	LastLogin    *time.Time `gorm:"column:last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string { return "users" }
