// File: swiftmotors/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"swiftmotors/config"
	"swiftmotors/database"
	schedulerRepo "swiftmotors/database/repository/scheduler"
	"swiftmotors/handlers"
	"swiftmotors/middleware"
	"swiftmotors/models"
	"swiftmotors/routes"
	memoryService "swiftmotors/services/memory"
	"swiftmotors/services/scheduling"
	"swiftmotors/services/session"
	"swiftmotors/utils"
	"swiftmotors/workers"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Scheduling horizon: the bookable window starting today.
	horizon := models.NewHorizon(time.Now(), config.AppConfig.HorizonDays)

	// repositories.
	schedRepo := schedulerRepo.NewMongoSchedulerRepo()
	if err := schedRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure scheduler indexes: %v", err)
	}

	// services.
	availabilityService := &scheduling.DefaultAvailabilityService{
		Repo:    schedRepo,
		Horizon: horizon,
	}
	coordinator := &scheduling.DefaultBookingCoordinator{
		Repo:    schedRepo,
		Horizon: horizon,
	}

	memClient := memoryService.NewClient(
		config.AppConfig.MemoryServiceURL,
		config.AppConfig.MemoryServiceAPIKey,
	)
	ctxStore := memoryService.NewRedisContextStore(
		utils.GetCacheClient(),
		time.Duration(config.AppConfig.MemoryContextTTLSec)*time.Second,
	)
	memProvider := &memoryService.DefaultContextProvider{
		Client:   memClient,
		Cache:    ctxStore,
		Enqueuer: workers.NewEnqueueClient(),
		Timeout:  time.Duration(config.AppConfig.MemoryTimeoutMs) * time.Millisecond,
	}
	workers.InitMemoryWorker(memClient)

	facade := &session.DefaultSchedulingFacade{
		Memory:       memProvider,
		Availability: availabilityService,
		Coordinator:  coordinator,
		Repo:         schedRepo,
		Horizon:      horizon,
		TopK:         config.AppConfig.MemoryTopK,
	}

	schedulingHandler := handlers.NewSchedulingHandler(
		facade, availabilityService, coordinator, schedRepo, horizon, logger,
	)

	routes.RegisterRoutes(router, schedulingHandler)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient()},
		database.MongoClient,
	)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
