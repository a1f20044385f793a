package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ping-point/api-go/controllers"
)

// SetupReadRoutes registers the routes that are readable without a session.
func SetupReadRoutes(
	optional *gin.RouterGroup,
	placeController *controllers.PlaceController,
	reviewController *controllers.ReviewController,
	feedController *controllers.FeedController,
	profileController *controllers.ProfileController,
) {
	places := optional.Group("/places")
	{
		places.GET("/search", placeController.SearchPlaces)
		places.GET("/:placeId", placeController.GetPlace)
	}

	activities := optional.Group("/activities")
	{
		activities.GET("/:activityId/reviews", reviewController.GetReviews)
	}

	feed := optional.Group("/feed")
	{
		feed.GET("/explore", feedController.GetExplore)
	}

	users := optional.Group("/users")
	{
		users.GET("/:userId", profileController.GetProfile)
		users.GET("/:userId/created-places", placeController.GetPlacesByOwner)
		users.GET("/:userId/places", profileController.GetProfilePlaces)
		users.GET("/:userId/reviews", profileController.GetProfileReviews)
		users.GET("/:userId/likes", profileController.GetProfileLikes)
	}
}
