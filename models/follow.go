package models

import "gorm.io/gorm"

// FollowStatus values; only accepted edges count towards friendship.
const (
	FollowStatusPending  = "pending"
	FollowStatusAccepted = "accepted"
)

type Follow struct {
	gorm.Model
	FollowerUserID  uint   `gorm:"not null;uniqueIndex:idx_follow_pair"`
	FollowingUserID uint   `gorm:"not null;uniqueIndex:idx_follow_pair"`
	Status          string `gorm:"not null;default:'pending';type:varchar(10)"`

	FollowerUser  User `gorm:"foreignKey:FollowerUserID"`
	FollowingUser User `gorm:"foreignKey:FollowingUserID"`
}
