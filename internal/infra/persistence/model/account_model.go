package model

import (
	"time"

	"github.com/google/uuid"
)

// AccountModel mirrors the 'accounts' table. PostgreSQL generates UUIDs via gen_random_uuid().
// It is an exported type so it can be used by the GORM Gen tool from other packages.
type AccountModel struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserName          string     `gorm:"type:varchar(30);uniqueIndex:accounts_user_name_key;not null"`
	Email             string     `gorm:"type:varchar(255);uniqueIndex:accounts_email_key;not null"`
	PasswordHash      string     `gorm:"type:varchar(255);not null"`
	IsVerified        bool       `gorm:"not null;default:false"`
	Bio               string     `gorm:"type:varchar(150);not null;default:''"`
	ProfilePictureURL string     `gorm:"type:text;not null;default:''"`
	ProfilePictureKey string     `gorm:"type:text;not null;default:''"`
	OTPCode           *string    `gorm:"column:otp_code;type:varchar(12)"`
	OTPExpiresAt      *time.Time `gorm:"column:otp_expires_at"`
	ResetOTPCode      *string    `gorm:"column:reset_otp_code;type:varchar(12)"`
	ResetOTPExpiresAt *time.Time `gorm:"column:reset_otp_expires_at"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "accounts"
}

// FollowModel mirrors the 'follows' join table.
type FollowModel struct {
	FollowerID uuid.UUID `gorm:"type:uuid;primaryKey"`
	FolloweeID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (FollowModel) TableName() string {
	return "follows"
}
