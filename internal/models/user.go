// Package models contains the domain models for the application.
package models

import (
	"time"
)

// User represents a registered account. The ReleaseIDs, LikedIDs and
// FollowIDs views are computed from the releases, likes and follows tables
// and are never stored on the user row.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"uniqueIndex;size:50;not null" json:"userId"`
	UserName  string    `gorm:"uniqueIndex;size:50;not null" json:"userName"`
	Password  string    `gorm:"not null" json:"-"`
	Avatar    string    `json:"avatar"`
	IsAdmin   bool      `gorm:"default:false" json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ReleaseIDs []string `gorm:"-" json:"release"`
	LikedIDs   []string `gorm:"-" json:"liked"`
	FollowIDs  []string `gorm:"-" json:"follow"`
}

// Sanitized returns a copy safe for API responses.
func (u *User) Sanitized() User {
	out := *u
	out.Password = ""
	return out
}
