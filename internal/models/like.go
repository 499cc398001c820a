package models

import "time"

// Like is a favorite edge between a user and a release. The composite unique
// index makes repeated likes idempotent at the database level.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"size:50;not null;uniqueIndex:idx_like_user_release" json:"userId"`
	ReleaseID string    `gorm:"size:50;not null;uniqueIndex:idx_like_user_release" json:"releaseId"`
	CreatedAt time.Time `json:"createdAt"`
}
