package models

import (
	"time"

	"gorm.io/gorm"
)

// ReviewKind distinguishes a user's first rated post on an activity from
// their follow-up check-ins.
type ReviewKind string

const (
	ReviewKindReview  ReviewKind = "review"
	ReviewKindCheckIn ReviewKind = "checkin"
)

type Review struct {
	ID                uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	PlaceActivityID   uint           `json:"placeActivityId" gorm:"not null;index"`
	PlaceActivity     PlaceActivity  `json:"-" gorm:"foreignKey:PlaceActivityID"`
	AuthorID          uint           `json:"authorId" gorm:"not null;index"`
	Author            User           `json:"-" gorm:"foreignKey:AuthorID"`
	AuthorDisplayName string         `json:"authorDisplayName" gorm:"not null"`
	Rating            int            `json:"rating" gorm:"not null"`
	Content           string         `json:"content" gorm:"type:text"`
	ImageURL          string         `json:"imageUrl"`
	ThumbnailURL      string         `json:"thumbnailUrl"`
	LikesCount        int            `json:"likesCount" gorm:"not null;default:0"`
	Kind              ReviewKind     `json:"kind" gorm:"not null;default:'review';type:varchar(10)"`
	Tags              []Tag          `json:"tags" gorm:"many2many:review_tags"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`
}

// Tag is a normalized, lowercase label attached to reviews.
type Tag struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReviewLike joins a user to a review they liked; the pair is unique and
// drives the review's denormalized LikesCount.
type ReviewLike struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	ReviewID  uint      `json:"reviewId" gorm:"not null;uniqueIndex:idx_review_like_pair"`
	Review    Review    `json:"-" gorm:"foreignKey:ReviewID"`
	UserID    uint      `json:"userId" gorm:"not null;uniqueIndex:idx_review_like_pair;index"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
	CreatedAt time.Time `json:"createdAt"`
}
