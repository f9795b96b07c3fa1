package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"schooldir/internal/config"
	"schooldir/internal/database"
	"schooldir/internal/repositories"
	"schooldir/internal/server"
	"schooldir/internal/services"
	"schooldir/pkg/cloudinary"
	"schooldir/pkg/rabbitmq"

	"github.com/spf13/viper"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// --- Store ---
	repo, closeStore := openRepository(cfg.Database)
	defer closeStore()

	// --- Image host ---
	uploader, err := cloudinary.NewClient(cloudinary.Config{
		CloudName:    cfg.Cloudinary.CloudName,
		UploadPreset: cfg.Cloudinary.UploadPreset,
		Folder:       cfg.Cloudinary.Folder,
		APIURL:       cfg.Cloudinary.APIURL,
		Timeout:      cfg.Cloudinary.Timeout,
	})
	if err != nil {
		log.Fatalf("Failed to initialize Cloudinary client: %v", err)
	}

	// --- Optional event broker ---
	var publisher services.EventPublisher
	if cfg.RabbitMQ.Enabled() {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Queue: cfg.RabbitMQ.Queue})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		publisher = mqClient

		if err := mqClient.ConsumeSchoolEvents(rabbitmq.LogSchoolEvent); err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	} else {
		log.Println("RABBITMQ_URL not set, school events will not be published")
	}

	schoolService := services.NewSchoolService(repo, uploader, publisher, cfg.UploadMaxBytes)
	app := server.New(server.Options{
		SchoolService:  schoolService,
		UploadMaxBytes: cfg.UploadMaxBytes,
	})

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// openRepository returns the school repository for the configured driver and
// a function releasing its resources.
func openRepository(cfg config.Database) (repositories.SchoolRepository, func()) {
	if cfg.Driver == "memory" {
		log.Println("Using in-memory school repository; data is lost on restart")
		return repositories.NewMockSchoolRepository(), func() {}
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	return repositories.NewGORMSchoolRepository(db), func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
}
