package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ping-point/api-go/models"
)

type GenreController struct {
	DB *gorm.DB
}

func NewGenreController(db *gorm.DB) *GenreController {
	return &GenreController{DB: db}
}

func (gc *GenreController) ListGenres(c *gin.Context) {
	var genres []models.Genre
	if err := gc.DB.Order("name ASC").Find(&genres).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch genres"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"genres": genres})
}
