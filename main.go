package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"vetclinic-server/internal/appointments"
	"vetclinic-server/internal/billing"
	"vetclinic-server/internal/config"
	"vetclinic-server/internal/models"
	"vetclinic-server/internal/reminder"
	"vetclinic-server/internal/routes"
	"vetclinic-server/internal/sms"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Initialize database connection
	db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.Database.DSN})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	// Clinic timezone drives all reminder date matching, regardless of
	// the host timezone.
	clinicTZ, err := time.LoadLocation(cfg.ClinicTimezone)
	if err != nil {
		log.Fatalf("Invalid clinic timezone %q: %v", cfg.ClinicTimezone, err)
	}

	// SMS gateway client
	smsClient, err := sms.New(sms.Config{
		BaseURL:    cfg.SMS.BaseURL,
		APIKey:     cfg.SMS.APIKey,
		SenderName: cfg.SMS.SenderName,
		Timeout:    cfg.SMS.Timeout,
		Logger:     logger,
	})
	if err != nil {
		log.Fatalf("Error configuring SMS gateway: %v", err)
	}

	// Core services
	pricingEngine := billing.NewEngine(db, cfg.Billing.AllowUnknownItems)
	billingService := billing.NewService(db, pricingEngine)
	dispatcher := reminder.NewDispatcher(db, smsClient, clinicTZ, logger)
	appointmentService := appointments.NewService(db, dispatcher)

	// Optional in-process sweep; deployments may prefer an external
	// scheduler hitting the cron endpoint instead.
	if cfg.SweepInterval > 0 {
		sweeper := reminder.NewSweeper(dispatcher, cfg.SweepInterval, logger)
		go sweeper.Run(context.Background())
	}

	// Initialize Gin router
	router := gin.Default()

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Set up routes
	routes.SetupRoutes(router, db, cfg, billingService, appointmentService, dispatcher)

	// Start server
	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	fmt.Printf("Server running on port %s\n", cfg.Port)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
