package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ping-point/api-go/geo"
	"github.com/ping-point/api-go/models"
	"github.com/ping-point/api-go/services"
	"github.com/ping-point/api-go/types"
	"github.com/ping-point/api-go/utils"
)

type FeedController struct {
	Reviews *services.ReviewService
}

func NewFeedController(reviews *services.ReviewService) *FeedController {
	return &FeedController{Reviews: reviews}
}

type ExploreQuery struct {
	types.PageQuery
	Genre     string   `form:"genre"`
	Kind      string   `form:"kind" binding:"omitempty,oneof=review checkin"`
	Keyword   string   `form:"keyword"`
	Latitude  *float64 `form:"latitude"`
	Longitude *float64 `form:"longitude"`
	RadiusKm  float64  `form:"radius,default=25" binding:"omitempty,min=0.1,max=500"`
}

func (fc *FeedController) GetExplore(c *gin.Context) {
	var query ExploreQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter := services.ExploreFilter{
		GenreName: query.Genre,
		Keyword:   query.Keyword,
	}
	if query.Kind != "" {
		kind := models.ReviewKind(query.Kind)
		filter.Kind = &kind
	}
	if query.Latitude != nil && query.Longitude != nil {
		if !geo.ValidCoordinates(*query.Latitude, *query.Longitude) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coordinates"})
			return
		}
		box := geo.BoundingBox(*query.Latitude, *query.Longitude, query.RadiusKm)
		filter.Box = &box
	}

	result, err := fc.Reviews.GetExplore(c.Request.Context(), filter, utils.ActorID(c), query.PageQuery)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (fc *FeedController) GetFriendsFeed(c *gin.Context) {
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

	result, err := fc.Reviews.GetFriendsFeed(c.Request.Context(), user.UserID, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
