package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ping-point/api-go/services"
	"github.com/ping-point/api-go/types"
	"github.com/ping-point/api-go/utils"
)

type ReviewController struct {
	Reviews *services.ReviewService
}

func NewReviewController(reviews *services.ReviewService) *ReviewController {
	return &ReviewController{Reviews: reviews}
}

type CreateActivityRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreateReviewRequest struct {
	Rating       int      `json:"rating" binding:"required"`
	Content      string   `json:"content"`
	ImageURL     string   `json:"imageUrl"`
	ThumbnailURL string   `json:"thumbnailUrl"`
	Tags         []string `json:"tags"`
}

type UpdateReviewRequest struct {
	Rating       *int     `json:"rating"`
	Content      *string  `json:"content"`
	ImageURL     *string  `json:"imageUrl"`
	ThumbnailURL *string  `json:"thumbnailUrl"`
	Tags         []string `json:"tags"`
}

type ReviewListQuery struct {
	types.PageQuery
	Scope   string `form:"scope,default=global" binding:"omitempty,oneof=mine friends global"`
	Grouped bool   `form:"grouped"`
}

func (rc *ReviewController) CreateActivity(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	placeID, err := parseID(c.Param("placeId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid place id"})
		return
	}

	var req CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	activity, err := rc.Reviews.GetOrCreateActivity(c.Request.Context(), placeID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, activity)
}

func (rc *ReviewController) CreateReview(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	activityID, err := parseID(c.Param("activityId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid activity id"})
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dto, err := rc.Reviews.CreateReview(c.Request.Context(), activityID, services.CreateReviewInput{
		Rating:       req.Rating,
		Content:      req.Content,
		ImageURL:     req.ImageURL,
		ThumbnailURL: req.ThumbnailURL,
		Tags:         req.Tags,
	}, user.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto)
}

func (rc *ReviewController) GetReviews(c *gin.Context) {
	activityID, err := parseID(c.Param("activityId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid activity id"})
		return
	}

	var query ReviewListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID := utils.ActorID(c)
	scope := services.ReviewScope(query.Scope)
	if actorID == 0 && scope != services.ScopeGlobal {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Login required for this scope"})
		return
	}

	if query.Grouped {
		result, err := rc.Reviews.GetReviewsGrouped(c.Request.Context(), activityID, scope, actorID, query.PageQuery)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}

	result, err := rc.Reviews.GetReviews(c.Request.Context(), activityID, scope, actorID, query.PageQuery)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (rc *ReviewController) UpdateReview(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	id, err := parseID(c.Param("reviewId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review id"})
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dto, err := rc.Reviews.UpdateReview(c.Request.Context(), id, services.UpdateReviewInput{
		Rating:       req.Rating,
		Content:      req.Content,
		ImageURL:     req.ImageURL,
		ThumbnailURL: req.ThumbnailURL,
		Tags:         req.Tags,
	}, user.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto)
}

func (rc *ReviewController) DeleteReview(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	id, err := parseID(c.Param("reviewId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review id"})
		return
	}

	if err := rc.Reviews.DeleteReview(c.Request.Context(), id, user.UserID, user.IsAdmin); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}

func (rc *ReviewController) LikeReview(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	id, err := parseID(c.Param("reviewId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review id"})
		return
	}

	if err := rc.Reviews.Like(c.Request.Context(), id, user.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": true})
}

func (rc *ReviewController) UnlikeReview(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	id, err := parseID(c.Param("reviewId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review id"})
		return
	}

	if err := rc.Reviews.Unlike(c.Request.Context(), id, user.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": false})
}

func (rc *ReviewController) GetLikedReviews(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var page types.PageQuery
	if err := c.ShouldBindQuery(&page); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := rc.Reviews.GetLiked(c.Request.Context(), user.UserID, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (rc *ReviewController) GetMyReviews(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var page types.PageQuery
	if err := c.ShouldBindQuery(&page); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := rc.Reviews.GetMyReviews(c.Request.Context(), user.UserID, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
