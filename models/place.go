package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/ping-point/api-go/visibility"
)

// PlaceKind separates user-named places from ones backed by an authoritative
// third-party record.
type PlaceKind string

const (
	PlaceKindCustom   PlaceKind = "custom"
	PlaceKindVerified PlaceKind = "verified"
)

type Place struct {
	ID              uint             `json:"id" gorm:"primaryKey;autoIncrement"`
	Name            string           `json:"name" gorm:"not null;index"`
	Address         string           `json:"address" gorm:"index"`
	Latitude        float64          `json:"latitude" gorm:"not null;index;type:decimal(10,8)"`
	Longitude       float64          `json:"longitude" gorm:"not null;index;type:decimal(11,8)"`
	OwnerID         uint             `json:"ownerId" gorm:"not null;index"`
	Owner           User             `json:"-" gorm:"foreignKey:OwnerID"`
	Visibility      visibility.Level `json:"visibility" gorm:"not null;default:'public';type:varchar(10)"`
	Kind            PlaceKind        `json:"kind" gorm:"not null;default:'custom';type:varchar(10)"`
	GenreID         *uint            `json:"genreId" gorm:"index"`
	Genre           *Genre           `json:"genre,omitempty" gorm:"foreignKey:GenreID"`
	ExternalPlaceID *string          `json:"externalPlaceId" gorm:"index"`
	FavoritesCount  int              `json:"favoritesCount" gorm:"not null;default:0"`
	IsDeleted       bool             `json:"isDeleted" gorm:"not null;default:false;index"`
	Activities      []PlaceActivity  `json:"activities,omitempty" gorm:"foreignKey:PlaceID"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt   `json:"-" gorm:"index"`

	// Distance is filled in by geo search, never persisted.
	Distance float64 `json:"distance,omitempty" gorm:"-"`
}

// Genre is an optional place classification used by search filters.
type Genre struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"createdAt"`
}
