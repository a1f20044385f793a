package models

import "time"

// Favorite joins a user to a place they saved; the pair is unique and drives
// the place's denormalized FavoritesCount.
type Favorite struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint      `json:"userId" gorm:"not null;uniqueIndex:idx_favorite_pair;index"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
	PlaceID   uint      `json:"placeId" gorm:"not null;uniqueIndex:idx_favorite_pair"`
	Place     Place     `json:"-" gorm:"foreignKey:PlaceID"`
	CreatedAt time.Time `json:"createdAt"`
}
