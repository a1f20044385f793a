package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ping-point/api-go/models"
	"github.com/ping-point/api-go/services"
	"github.com/ping-point/api-go/types"
	"github.com/ping-point/api-go/utils"
	"github.com/ping-point/api-go/visibility"
)

type PlaceController struct {
	Places *services.PlaceService
}

func NewPlaceController(places *services.PlaceService) *PlaceController {
	return &PlaceController{Places: places}
}

type CreatePlaceRequest struct {
	Name            string  `json:"name" binding:"required"`
	Address         string  `json:"address"`
	Latitude        float64 `json:"latitude" binding:"required"`
	Longitude       float64 `json:"longitude" binding:"required"`
	Visibility      string  `json:"visibility" binding:"required,oneof=private friends public"`
	Kind            string  `json:"kind" binding:"required,oneof=custom verified"`
	GenreID         *uint   `json:"genreId"`
	ExternalPlaceID *string `json:"externalPlaceId"`
}

type UpdatePlaceRequest struct {
	Name       *string  `json:"name"`
	Address    *string  `json:"address"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	Visibility *string  `json:"visibility" binding:"omitempty,oneof=private friends public"`
	Kind       *string  `json:"kind" binding:"omitempty,oneof=custom verified"`
	GenreID    *uint    `json:"genreId"`
}

type SearchPlacesQuery struct {
	types.PageQuery
	Keyword      string   `form:"keyword"`
	Tags         []string `form:"tags"`
	Latitude     *float64 `form:"latitude"`
	Longitude    *float64 `form:"longitude"`
	RadiusKm     float64  `form:"radius,default=10" binding:"omitempty,min=0.1,max=100"`
	Visibility   string   `form:"visibility" binding:"omitempty,oneof=private friends public"`
	Kind         string   `form:"kind" binding:"omitempty,oneof=custom verified"`
	ActivityName string   `form:"activity"`
	GenreName    string   `form:"genre"`
}

func (pc *PlaceController) CreatePlace(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var req CreatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	details, err := pc.Places.Create(c.Request.Context(), services.CreatePlaceInput{
		Name:            req.Name,
		Address:         req.Address,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		Visibility:      visibility.Level(req.Visibility),
		Kind:            models.PlaceKind(req.Kind),
		GenreID:         req.GenreID,
		ExternalPlaceID: req.ExternalPlaceID,
	}, user.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, details)
}

func (pc *PlaceController) UpdatePlace(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	id, err := parseID(c.Param("placeId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid place id"})
		return
	}

	var req UpdatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.UpdatePlaceInput{
		Name:      req.Name,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		GenreID:   req.GenreID,
	}
	if req.Visibility != nil {
		level := visibility.Level(*req.Visibility)
		input.Visibility = &level
	}
	if req.Kind != nil {
		kind := models.PlaceKind(*req.Kind)
		input.Kind = &kind
	}

	details, err := pc.Places.Update(c.Request.Context(), id, input, user.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

func (pc *PlaceController) GetPlace(c *gin.Context) {
	id, err := parseID(c.Param("placeId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid place id"})
		return
	}

	details, err := pc.Places.GetByID(c.Request.Context(), id, utils.ActorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if details == nil {
		// Missing and invisible places are indistinguishable.
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	c.JSON(http.StatusOK, details)
}

func (pc *PlaceController) SearchPlaces(c *gin.Context) {
	var query SearchPlacesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filters := services.SearchFilters{
		Keyword:      query.Keyword,
		Tags:         query.Tags,
		ActivityName: query.ActivityName,
		GenreName:    query.GenreName,
	}
	if query.Latitude != nil && query.Longitude != nil {
		filters.Center = &services.SearchCenter{
			Latitude:  *query.Latitude,
			Longitude: *query.Longitude,
			RadiusKm:  query.RadiusKm,
		}
	}
	if query.Visibility != "" {
		level := visibility.Level(query.Visibility)
		filters.Visibility = &level
	}
	if query.Kind != "" {
		kind := models.PlaceKind(query.Kind)
		filters.Kind = &kind
	}

	result, err := pc.Places.SearchNearby(c.Request.Context(), filters, utils.ActorID(c), query.PageQuery)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (pc *PlaceController) FavoritePlace(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	id, err := parseID(c.Param("placeId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid place id"})
		return
	}

	if err := pc.Places.Favorite(c.Request.Context(), id, user.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorited": true})
}

func (pc *PlaceController) UnfavoritePlace(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	id, err := parseID(c.Param("placeId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid place id"})
		return
	}

	if err := pc.Places.Unfavorite(c.Request.Context(), id, user.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorited": false})
}

func (pc *PlaceController) GetFavoritedPlaces(c *gin.Context) {
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

	result, err := pc.Places.GetFavorited(c.Request.Context(), user.UserID, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (pc *PlaceController) GetPlacesByOwner(c *gin.Context) {
	ownerID, err := parseID(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var page types.PageQuery
	if err := c.ShouldBindQuery(&page); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := pc.Places.GetByOwner(c.Request.Context(), ownerID, utils.ActorID(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (pc *PlaceController) DeletePlace(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	id, err := parseID(c.Param("placeId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid place id"})
		return
	}

	if err := pc.Places.SoftDelete(c.Request.Context(), id, user.UserID, user.IsAdmin); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Place deleted"})
}

func parseID(s string) (uint, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}
