package models

import "time"

// Follow is a subscription edge from one user to another.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	FollowerID string    `gorm:"size:50;not null;uniqueIndex:idx_follow_pair" json:"followerId"`
	FolloweeID string    `gorm:"size:50;not null;uniqueIndex:idx_follow_pair" json:"followeeId"`
	CreatedAt  time.Time `json:"createdAt"`
}
