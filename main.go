package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"voicedesk-backend/config"
	"voicedesk-backend/controllers"
	"voicedesk-backend/routes"
	"voicedesk-backend/services"
	"voicedesk-backend/utils"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found or couldn't load it; continuing with environment variables")
	}

	logger, err := utils.NewLogger()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if os.Getenv("VOICE_API_KEY") == "" {
		logger.Warn("VOICE_API_KEY is not set; remote configuration pushes will be rejected by the platform")
	}

	if err := config.ConnectDatabase(); err != nil {
		logger.Fatalw("database connect failed", "error", err)
	}
	db := config.DB

	// Services
	documentService := services.NewDocumentService(db)
	pricingService := services.NewPricingService(db, documentService)
	availabilityService := services.NewAvailabilityService(db)
	inventoryService := services.NewInventoryService(db, documentService, logger)
	reservationService := services.NewReservationService(db, pricingService)
	gateway := services.NewVoicePlatformClient()
	assignmentService := services.NewAssignmentService(db, documentService, pricingService, gateway, logger)

	// Controllers
	assignmentController := controllers.NewAssignmentController(assignmentService)
	knowledgeController := controllers.NewKnowledgeController(documentService)
	reservationController := controllers.NewReservationController(reservationService, inventoryService)
	toolController := controllers.NewToolController(db, documentService, pricingService, availabilityService)

	router := routes.SetupRouter(assignmentController, knowledgeController, reservationController, toolController, logger)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Infow("server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalw("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalw("forced shutdown", "error", err)
	}
	logger.Info("server stopped")
}
