package models

import "time"

// UserModel is a diary account identified by email.
type UserModel struct {
	Base
	Email         string     `json:"email"           gorm:"uniqueIndex;not null"`
	Password      string     `json:"-"               gorm:"not null"` // bcrypt, never exposed
	LastLoginTime *time.Time `json:"last_login_time"`
	LastLoginIP   string     `json:"last_login_ip"`
}

func (UserModel) TableName() string { return "users" }

// PasswordResetToken is a single-use token mailed to the user.
type PasswordResetToken struct {
	Base
	UserID    string     `json:"-"          gorm:"index;not null"`
	Token     string     `json:"-"          gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time  `json:"expires_at" gorm:"not null"`
	UsedAt    *time.Time `json:"used_at"`
}

func (PasswordResetToken) TableName() string { return "password_reset_tokens" }
