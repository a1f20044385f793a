package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/ping-point/api-go/visibility"
)

type User struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at"`
	Username    string         `gorm:"uniqueIndex;not null" json:"username"`
	DisplayName string         `json:"display_name"`
	Email       string         `gorm:"uniqueIndex;not null" json:"email"`
	Password    string         `gorm:"not null" json:"-"`
	Bio         string         `json:"bio"`
	Avatar      string         `json:"avatar"`
	IsAdmin     bool           `gorm:"not null;default:false" json:"is_admin"`

	// Per-category profile privacy. Each is independently public or
	// friends-only; private is not an option at the category level.
	ReviewsPrivacy visibility.Level `gorm:"not null;default:'public';type:varchar(10)" json:"reviews_privacy"`
	PlacesPrivacy  visibility.Level `gorm:"not null;default:'public';type:varchar(10)" json:"places_privacy"`
	LikesPrivacy   visibility.Level `gorm:"not null;default:'public';type:varchar(10)" json:"likes_privacy"`

	Places        []Place        `json:"-" gorm:"foreignKey:OwnerID"`
	Reviews       []Review       `json:"-" gorm:"foreignKey:AuthorID"`
	RefreshTokens []RefreshToken `json:"-" gorm:"foreignKey:UserID"`
}
