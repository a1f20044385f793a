package main

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ping-point/api-go/ai"
	"github.com/ping-point/api-go/config"
	"github.com/ping-point/api-go/googleplaces"
	"github.com/ping-point/api-go/logger"
	"github.com/ping-point/api-go/middleware"
	"github.com/ping-point/api-go/ratelimit"
	"github.com/ping-point/api-go/routes"
	"github.com/ping-point/api-go/services"
	"github.com/ping-point/api-go/storage"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db := config.InitDB(cfg)

	rdb, err := ratelimit.Connect(cfg.RedisURL)
	if err != nil {
		// The limiter degrades gracefully, so a missing Redis only costs
		// quota enforcement.
		log.Warn("redis unavailable, creation quotas disabled", zap.Error(err))
	}
	limiter := ratelimit.NewRedisLimiter(rdb)

	var matcher ai.SemanticMatcher
	var moderation ai.ModerationGate
	if cfg.OpenAIAPIKey != "" {
		client := ai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		matcher = client
		moderation = client
	} else {
		log.Warn("no OpenAI key configured, using deterministic matching and no moderation")
		matcher = ai.NewFuzzyMatcher()
		moderation = ai.NewPermissiveGate()
	}

	lookup := googleplaces.NewClient(cfg.GooglePlacesAPIKey)

	friends := services.NewGormFriendGraph(db)
	blocks := services.NewGormBlockGraph(db)

	placeService := services.NewPlaceService(db, lookup, matcher, moderation, limiter, friends, log, cfg.PlaceCreationDailyQuota)
	reviewService := services.NewReviewService(db, moderation, friends, blocks, log)
	profileService := services.NewProfileService(db, friends, blocks, reviewService, log)

	var store *storage.R2Store
	if cfg.R2.AccountID != "" {
		store = storage.NewR2Store(cfg.R2)
	}

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.Logger(log), gin.Recovery())

	routes.SetupRoutes(r, routes.Dependencies{
		DB:        db,
		JWTSecret: cfg.JWTSecret,
		Places:    placeService,
		Reviews:   reviewService,
		Profiles:  profileService,
		Store:     store,
	})

	log.Info("starting server", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
