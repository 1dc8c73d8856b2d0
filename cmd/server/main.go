package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	httpapi "loaner-backend/internal/api/http"
	"loaner-backend/internal/config"
	"loaner-backend/internal/logger"
	"loaner-backend/internal/repository/postgres"
	"loaner-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Loaner Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName)
	notificationSvc := service.NewNotificationService(store, emailSvc, cfg.Email.AliasDomain)
	availabilitySvc := service.NewAvailabilityService(store)
	reservationSvc := service.NewReservationService(store, notificationSvc)
	equipmentSvc := service.NewEquipmentService(store)
	inventorySvc := service.NewInventoryService(store)
	managerSvc := service.NewSiteManagerService(store)

	// Set up HTTP server
	router := httpapi.NewRouter(&httpapi.Services{
		Availability: availabilitySvc,
		Reservation:  reservationSvc,
		Equipment:    equipmentSvc,
		Inventory:    inventorySvc,
		SiteManager:  managerSvc,
		Notification: notificationSvc,
	})

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
