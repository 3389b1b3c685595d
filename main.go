package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nur922184/server-workbd/config"
	"github.com/nur922184/server-workbd/controllers/admins"
	"github.com/nur922184/server-workbd/database"
	"github.com/nur922184/server-workbd/income"
	"github.com/nur922184/server-workbd/middleware"
	"github.com/nur922184/server-workbd/routes"
	"github.com/nur922184/server-workbd/utils"
)

func main() {
	// Load .env if present (do not overwrite already-set environment variables).
	if envMap, err := godotenv.Read(); err == nil {
		for k, v := range envMap {
			if os.Getenv(k) == "" {
				os.Setenv(k, v)
			}
		}
	}

	requiredEnvVars := []string{"DB_HOST", "DB_USER", "DB_NAME", "JWT_SECRET"}
	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	// Auto-migrate only in development to avoid accidental production schema changes
	if strings.ToLower(os.Getenv("ENV")) == "development" {
		log.Println("Running in development mode - performing auto-migration")
		if err := database.Migrate(db); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}
		log.Println("Auto-migration completed successfully")
	} else {
		log.Println("Running in production mode - skipping auto-migration")
	}

	utils.InitRedis()

	cfg := config.Get()
	distributor := income.NewDistributor(db, cfg, utils.RedisClient)
	admins.SetDistributor(distributor)

	// Background income ticker. The cron endpoint triggers the same
	// distributor; overlapping triggers collapse into one run.
	tickerCtx, stopTicker := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-tickerCtx.Done():
				return
			case <-ticker.C:
				if _, err := distributor.Run(tickerCtx); err != nil {
					log.Printf("[main] scheduled income run failed: %v", err)
				}
			}
		}
	}()

	router := routes.InitRouter()

	// Global middleware: Logging -> Request ID -> Max Body -> Timeout -> Recovery -> Metrics
	handler := middleware.RequestLogMiddleware(
		middleware.RequestIDMiddleware(
			middleware.MaxBodyMiddleware(
				middleware.TimeoutMiddleware(
					middleware.RecoveryMiddleware(
						middleware.MetricsMiddleware(router),
					),
				),
			),
		),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")
	stopTicker()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
