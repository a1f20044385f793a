package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ping-point/api-go/controllers"
	"github.com/ping-point/api-go/middleware"
	"github.com/ping-point/api-go/services"
	"github.com/ping-point/api-go/storage"
)

// Dependencies bundles everything the route tree needs.
type Dependencies struct {
	DB        *gorm.DB
	JWTSecret string
	Places    *services.PlaceService
	Reviews   *services.ReviewService
	Profiles  *services.ProfileService
	Store     *storage.R2Store
}

func SetupRoutes(r *gin.Engine, deps Dependencies) {
	authController := controllers.NewAuthController(deps.DB, deps.JWTSecret)
	placeController := controllers.NewPlaceController(deps.Places)
	reviewController := controllers.NewReviewController(deps.Reviews)
	feedController := controllers.NewFeedController(deps.Reviews)
	profileController := controllers.NewProfileController(deps.Profiles)
	interactionController := controllers.NewInteractionController(deps.DB)
	genreController := controllers.NewGenreController(deps.DB)

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/register", authController.Register)
		public.POST("/login", authController.Login)
		public.POST("/google-login", authController.GoogleLogin)
		public.POST("/refresh-token", authController.RefreshToken)
		public.GET("/genres", genreController.ListGenres)
	}

	// Read routes work logged out; an attached token personalizes them.
	optional := r.Group("/api")
	optional.Use(middleware.OptionalAuthMiddleware(deps.JWTSecret))
	{
		SetupReadRoutes(optional, placeController, reviewController, feedController, profileController)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware(deps.JWTSecret))
	{
		protected.POST("/logout", authController.Logout)

		SetupPlaceRoutes(protected, placeController)
		SetupReviewRoutes(protected, reviewController, feedController)
		SetupInteractionRoutes(protected, interactionController)

		if deps.Store != nil {
			uploadController := controllers.NewUploadController(deps.Store)
			SetupUploadRoutes(protected, uploadController)
		}
	}
}
