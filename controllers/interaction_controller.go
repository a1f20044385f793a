package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ping-point/api-go/models"
	"github.com/ping-point/api-go/utils"
)

// InteractionController manages follow and block edges between users.
type InteractionController struct {
	DB *gorm.DB
}

func NewInteractionController(db *gorm.DB) *InteractionController {
	return &InteractionController{DB: db}
}

func (ic *InteractionController) FollowUser(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	targetID, err := parseID(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}
	if targetID == user.UserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot follow yourself"})
		return
	}

	var target models.User
	if err := ic.DB.First(&target, targetID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var blocked int64
	ic.DB.Model(&models.Block{}).
		Where("(blocker_user_id = ? AND blocked_user_id = ?) OR (blocker_user_id = ? AND blocked_user_id = ?)",
			user.UserID, targetID, targetID, user.UserID).
		Count(&blocked)
	if blocked > 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var existing models.Follow
	err = ic.DB.Where("follower_user_id = ? AND following_user_id = ?", user.UserID, targetID).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"status": existing.Status})
		return
	}
	if err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to follow user"})
		return
	}

	follow := models.Follow{
		FollowerUserID:  user.UserID,
		FollowingUserID: targetID,
		Status:          models.FollowStatusPending,
	}
	if err := ic.DB.Create(&follow).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to follow user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": follow.Status})
}

func (ic *InteractionController) AcceptFollow(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	followerID, err := parseID(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	result := ic.DB.Model(&models.Follow{}).
		Where("follower_user_id = ? AND following_user_id = ? AND status = ?", followerID, user.UserID, models.FollowStatusPending).
		Update("status", models.FollowStatusAccepted)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept follow"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No pending follow request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": models.FollowStatusAccepted})
}

func (ic *InteractionController) UnfollowUser(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	targetID, err := parseID(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	if err := ic.DB.Where("follower_user_id = ? AND following_user_id = ?", user.UserID, targetID).
		Delete(&models.Follow{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unfollow user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unfollowed"})
}

func (ic *InteractionController) BlockUser(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	targetID, err := parseID(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}
	if targetID == user.UserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot block yourself"})
		return
	}

	var target models.User
	if err := ic.DB.First(&target, targetID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	// Blocking tears down follow edges in both directions so friendship is
	// severed alongside visibility.
	err = ic.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Block
		err := tx.Where("blocker_user_id = ? AND blocked_user_id = ?", user.UserID, targetID).First(&existing).Error
		if err == nil {
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		if err := tx.Create(&models.Block{BlockerUserID: user.UserID, BlockedUserID: targetID}).Error; err != nil {
			return err
		}
		return tx.Where("(follower_user_id = ? AND following_user_id = ?) OR (follower_user_id = ? AND following_user_id = ?)",
			user.UserID, targetID, targetID, user.UserID).
			Delete(&models.Follow{}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to block user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"blocked": true})
}

func (ic *InteractionController) UnblockUser(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	targetID, err := parseID(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	if err := ic.DB.Where("blocker_user_id = ? AND blocked_user_id = ?", user.UserID, targetID).
		Delete(&models.Block{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unblock user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"blocked": false})
}
