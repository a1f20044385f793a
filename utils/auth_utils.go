package utils

import (
	"github.com/gin-gonic/gin"
)

type UserClaims struct {
	UserID  uint `json:"user_id"`
	IsAdmin bool `json:"is_admin"`
}

type contextKey string

const UserContextKey contextKey = "user"

// GetUser returns the authenticated user's claims, or nil on public routes.
func GetUser(c *gin.Context) *UserClaims {
	user, exists := c.Get(string(UserContextKey))
	if !exists {
		return nil
	}
	if userClaims, ok := user.(*UserClaims); ok {
		return userClaims
	}
	return nil
}

// ActorID returns the authenticated user id, or 0 for anonymous actors.
func ActorID(c *gin.Context) uint {
	if claims := GetUser(c); claims != nil {
		return claims.UserID
	}
	return 0
}
