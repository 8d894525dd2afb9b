package types

import (
	"time"

	"github.com/google/uuid"
)

// Session holds one refresh token grant. Access tokens are stateless JWTs;
// refresh tokens are opaque and live here until rotated or revoked.
type Session struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User         *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	RefreshToken string    `gorm:"uniqueIndex;not null;column:refresh_token" json:"-"`
	DeviceInfo   string    `gorm:"column:device_info" json:"device_info,omitempty"`
	IPAddress    string    `gorm:"column:ip_address" json:"ip_address,omitempty"`
	ExpiresAt    time.Time `gorm:"not null;index;column:expires_at" json:"expires_at"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Session) TableName() string { return "sessions" }
