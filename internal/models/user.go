package models

import "time"

// User represents a registered account on the platform.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password  string    `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"` // bcrypt hash, never serialized
	Bio       string    `json:"bio" gorm:"type:text"`
	Image     string    `json:"image" gorm:"type:varchar(500)"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Follow is a directed edge: the follower follows the followee.
// The (follower_id, followee_id) pair is unique, so following twice
// can never produce a duplicate edge.
type Follow struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	FollowerID string    `json:"followerId" gorm:"type:varchar(36);not null;uniqueIndex:idx_follow_pair"`
	FolloweeID string    `json:"followeeId" gorm:"type:varchar(36);not null;uniqueIndex:idx_follow_pair"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TableName overrides GORM's pluralization for the follow edge table.
func (Follow) TableName() string { return "follows" }
