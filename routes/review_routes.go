package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ping-point/api-go/controllers"
)

func SetupReviewRoutes(protected *gin.RouterGroup, reviewController *controllers.ReviewController, feedController *controllers.FeedController) {
	protected.POST("/places/:placeId/activities", reviewController.CreateActivity)

	activities := protected.Group("/activities")
	{
		activities.POST("/:activityId/reviews", reviewController.CreateReview)
	}

	reviews := protected.Group("/reviews")
	{
		reviews.PUT("/:reviewId", reviewController.UpdateReview)
		reviews.DELETE("/:reviewId", reviewController.DeleteReview)
		reviews.POST("/:reviewId/like", reviewController.LikeReview)
		reviews.DELETE("/:reviewId/like", reviewController.UnlikeReview)
	}

	protected.GET("/me/reviews", reviewController.GetMyReviews)
	protected.GET("/me/likes", reviewController.GetLikedReviews)
	protected.GET("/feed/friends", feedController.GetFriendsFeed)
}
