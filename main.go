// File: afrimobile/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"afrimobile/config"
	"afrimobile/cron"
	"afrimobile/database"
	userRepoPkg "afrimobile/database/repository/user"
	"afrimobile/handlers"
	"afrimobile/middleware"
	"afrimobile/routes"
	"afrimobile/services/kyc"
	"afrimobile/services/tasks"
	"afrimobile/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// A single configuration-validated gateway instance lives for the whole
	// process; nothing provider-related runs as an import side effect.
	signer, err := kyc.NewSigner(config.AppConfig.SmilePartnerID, config.AppConfig.SmileAPIKey)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid provider credentials: %v", err)
	}
	gateway := kyc.NewSmileGateway(signer, config.IsSmileProduction())

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()

	// services.
	reminderScheduler := tasks.NewAsynqReminderScheduler()
	kycService := &kyc.DefaultKYCService{
		Repo:      userRepo,
		Gateway:   gateway,
		Signer:    signer,
		Reminders: reminderScheduler,
	}
	kycHandler := handlers.NewKYCHandler(kycService)

	// Background reminder worker.
	cron.InitKYCReminderWorker(userRepo)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		UserRepo: userRepo,

		CreateLinkHandler:      kycHandler.CreateLinkHandler,
		CreateBulkLinksHandler: kycHandler.CreateBulkLinksHandler,
		LinkStatusHandler:      kycHandler.LinkStatusHandler,
		UserKYCStatusHandler:   kycHandler.UserKYCStatusHandler,
		SmileWebhookHandler:    kycHandler.SmileWebhookHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetAuthCacheClient()},
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
