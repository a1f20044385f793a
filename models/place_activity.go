package models

import "time"

// PlaceActivity is a named sub-context under a place that reviews attach to.
// The name is unique per place, case-insensitive; NameKey holds the lowered
// form so the constraint is enforceable with a plain composite index.
type PlaceActivity struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	PlaceID   uint      `json:"placeId" gorm:"not null;index;uniqueIndex:idx_place_activity_name"`
	Place     Place     `json:"-" gorm:"foreignKey:PlaceID"`
	Name      string    `json:"name" gorm:"not null"`
	NameKey   string    `json:"-" gorm:"not null;uniqueIndex:idx_place_activity_name"`
	CreatedAt time.Time `json:"createdAt"`
}
