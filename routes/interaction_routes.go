package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ping-point/api-go/controllers"
)

func SetupInteractionRoutes(protected *gin.RouterGroup, interactionController *controllers.InteractionController) {
	users := protected.Group("/users")
	{
		users.POST("/:userId/follow", interactionController.FollowUser)
		users.DELETE("/:userId/follow", interactionController.UnfollowUser)
		users.POST("/:userId/follow/accept", interactionController.AcceptFollow)
		users.POST("/:userId/block", interactionController.BlockUser)
		users.DELETE("/:userId/block", interactionController.UnblockUser)
	}
}
