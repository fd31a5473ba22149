package models

import "time"

// SessionToken is a persisted BFF session. The backend token is sealed.
type SessionToken struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	UserID      uint   `gorm:"index" json:"user_id"`
	UserJSON    string `gorm:"type:text" json:"-"`
	SealedToken string `gorm:"type:text;not null" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
}
