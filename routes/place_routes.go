package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ping-point/api-go/controllers"
)

func SetupPlaceRoutes(protected *gin.RouterGroup, placeController *controllers.PlaceController) {
	places := protected.Group("/places")
	{
		places.POST("", placeController.CreatePlace)
		places.PUT("/:placeId", placeController.UpdatePlace)
		places.DELETE("/:placeId", placeController.DeletePlace)
		places.POST("/:placeId/favorite", placeController.FavoritePlace)
		places.DELETE("/:placeId/favorite", placeController.UnfavoritePlace)
	}

	protected.GET("/favorites", placeController.GetFavoritedPlaces)
}
