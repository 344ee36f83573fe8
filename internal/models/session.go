package models

import "time"

// UserSession is one signed-in device. Every issued JWT is bound to a
// row here, so revoking the row invalidates the token; the scheduler's
// cleanup job hard-deletes rows once expired or revoked past the grace
// window.
type UserSession struct {
	Base
	UserID    string     `json:"user_id"    gorm:"index;not null"`
	IP        string     `json:"ip"`
	UA        string     `json:"ua"         gorm:"type:text"`
	ExpiresAt time.Time  `json:"expires_at" gorm:"index;not null"`
	RevokedAt *time.Time `json:"revoked_at" gorm:"index"`
}

func (UserSession) TableName() string { return "user_sessions" }
