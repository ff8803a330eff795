package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OAuthProviderGoogle is the only federated identity provider accepted.
const OAuthProviderGoogle = "google"

var ErrPasswordRequired = errors.New("password is required unless an oauth provider is set")

// User is a credential record. PasswordHash is nil for OAuth-only accounts.
type User struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Username             string     `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Email                string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash         *string    `gorm:"column:password_hash" json:"-"`
	OAuthProvider        *string    `gorm:"column:oauth_provider;size:20;index:idx_users_oauth" json:"-"`
	OAuthID              *string    `gorm:"column:oauth_id;size:255;index:idx_users_oauth" json:"-"`
	ResetPasswordToken   *string    `gorm:"size:64;index" json:"-"`
	ResetPasswordExpires *time.Time `json:"-"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	if !u.HasPassword() && !u.IsFederated() {
		return ErrPasswordRequired
	}
	return nil
}

// HasPassword reports whether the user can authenticate with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// IsFederated reports whether the user is linked to an OAuth provider.
func (u *User) IsFederated() bool {
	return u.OAuthProvider != nil && *u.OAuthProvider != ""
}
