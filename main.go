// File: crewcal/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"crewcal/config"
	"crewcal/database"
	availabilityRepo "crewcal/database/repository/availability"
	"crewcal/handlers"
	"crewcal/middleware"
	"crewcal/routes"
	availabilitySvc "crewcal/services/availability"
	"crewcal/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitAvailabilityCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	cacheTTL := time.Duration(config.AppConfig.AvailabilityCacheTTLMin) * time.Minute
	availRepo := availabilityRepo.NewCachedAvailabilityRepo(
		availabilityRepo.NewMongoAvailabilityRepo(),
		utils.GetAvailabilityCacheClient(),
		cacheTTL,
	)

	// services.
	availabilityService := availabilitySvc.NewDefaultAvailabilityService(availRepo)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		GetMonthHandler:       availabilityHandler.GetMonthHandler,
		GetDayHandler:         availabilityHandler.GetDayHandler,
		GetDocumentHandler:    availabilityHandler.GetDocumentHandler,
		SaveDocumentHandler:   availabilityHandler.SaveDocumentHandler,
		DeleteDocumentHandler: availabilityHandler.DeleteDocumentHandler,

		ToggleDateHandler:     availabilityHandler.ToggleDateHandler,
		SetWeekdayRuleHandler: availabilityHandler.SetWeekdayRuleHandler,
		AddSlotHandler:        availabilityHandler.AddSlotHandler,
		RemoveSlotHandler:     availabilityHandler.RemoveSlotHandler,
		ApplyDateRangeHandler: availabilityHandler.ApplyDateRangeHandler,

		GetBusinessHoursHandler:    availabilityHandler.GetBusinessHoursHandler,
		SaveBusinessHoursHandler:   availabilityHandler.SaveBusinessHoursHandler,
		DeleteBusinessHoursHandler: availabilityHandler.DeleteBusinessHoursHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

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
