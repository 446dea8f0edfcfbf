package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"worklog/internal/config"
	"worklog/internal/container"
	"worklog/internal/errors"
	"worklog/internal/migration"
	"worklog/internal/ops"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// initDatabase opens the PostgreSQL connection and brings the schema up to date
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	if appConfig.Database.URL == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	// Run migrations
	migrator := migration.NewRunner()
	if err := migrator.Run(context.Background(), db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "database migration failed")
	}

	return db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	// Create dependency injection container
	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}

	switch appConfig.Database.Driver {
	case config.DriverMemory:
		log.Println("Using in-memory storage; data will not survive a restart")
		if err := appContainer.InitInMemory(); err != nil {
			log.Fatalf("Failed to initialize container: %v", err)
		}
	default:
		db, err := initDatabase(appConfig)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		if err := appContainer.InitWithDatabase(db); err != nil {
			log.Fatalf("Failed to initialize container: %v", err)
		}
	}

	apiServer := &http.Server{
		Addr:              ":" + appConfig.Server.Port,
		Handler:           appContainer.APIServer().Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var opsServer *http.Server
	if appConfig.Ops.Enabled {
		opsServer = &http.Server{
			Addr:              ":" + appConfig.Ops.Port,
			Handler:           ops.NewRouter(appContainer.OpsChecks()...),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			log.Printf("Ops server (health, pprof) starting on :%s", appConfig.Ops.Port)
			if err := opsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("Ops server failed: %v", err)
			}
		}()
	}

	go func() {
		log.Printf("Starting worklog API on port %s", appConfig.Server.Port)
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("API server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		log.Printf("API server shutdown: %v", err)
	}
	if opsServer != nil {
		if err := opsServer.Shutdown(ctx); err != nil {
			log.Printf("Ops server shutdown: %v", err)
		}
	}
	if err := appContainer.Shutdown(ctx); err != nil {
		log.Printf("Container shutdown: %v", err)
	}
	log.Println("Stopped")
}
