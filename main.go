// File: clinicbook/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinicbook/config"
	"clinicbook/cron"
	"clinicbook/gateway"
	"clinicbook/handlers"
	"clinicbook/middleware"
	"clinicbook/routes"
	"clinicbook/services/booking"
	"clinicbook/services/notification"
	"clinicbook/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// External clinic backend client.
	clinicGateway := gateway.NewHTTPGateway(
		config.AppConfig.ClinicAPIBaseURL,
		config.ClinicTimeout(),
		logger,
	)

	// services.
	notificationService := notification.NewDefaultNotificationService(logger)
	bookingService := booking.NewBookingFlowService(
		clinicGateway,
		notificationService,
		logger,
		config.PollInterval(),
		config.AppConfig.PollMaxAttempts,
		int64(config.AppConfig.ProofMaxSizeMB)<<20,
	)

	bookingHandler := handlers.NewBookingHandler(bookingService, logger)
	doctorHandler := handlers.NewDoctorHandler(clinicGateway, utils.GetCacheClient(), logger)

	routes.RegisterRoutes(router, bookingHandler, doctorHandler)

	// Background confirmation worker.
	cron.InitConfirmationWorker()

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

	if err := notificationService.Close(); err != nil {
		logger.Sugar().Warnf("main: closing notification queue: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
