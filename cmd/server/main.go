package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inphroneofficial/Inphrone-Application-sub005/internal/config"
	"github.com/inphroneofficial/Inphrone-Application-sub005/internal/database"
	"github.com/inphroneofficial/Inphrone-Application-sub005/internal/handlers"
	"github.com/inphroneofficial/Inphrone-Application-sub005/internal/middleware"
	"github.com/inphroneofficial/Inphrone-Application-sub005/internal/repository"
	"github.com/inphroneofficial/Inphrone-Application-sub005/internal/router"
	"github.com/inphroneofficial/Inphrone-Application-sub005/internal/services"
	"github.com/inphroneofficial/Inphrone-Application-sub005/internal/tracker"
)

func main() {
	log.Println("🚀 Starting Inphrone Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Client ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	sessionRepo := repository.NewActivitySessionRepo(pool)
	deletionRepo := repository.NewDeletionRepo(pool)
	purgeRepo := repository.NewPurgeRepo(pool)

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	authService := services.NewAuthService(userRepo, redisClient, jwtAuth)
	sessionTracker := tracker.New(sessionRepo)
	lifecycleService := services.NewLifecycleService(
		userRepo,
		deletionRepo,
		purgeRepo,
		authService,
		cfg.PurgeTables,
		cfg.DeletionGraceDays,
	)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	activitySessionHandler := handlers.NewActivitySessionHandler(sessionTracker)
	lifecycleHandler := handlers.NewAccountLifecycleHandler(lifecycleService)

	// ──── Step 5: Start Deletion Sweeper ────
	sweeper := services.NewDeletionSweeper(
		deletionRepo,
		services.SweepOwnedTables(cfg.PurgeTables),
		time.Duration(cfg.SweepIntervalMinutes)*time.Minute,
	)
	sweeper.Start()
	log.Println("✓ Deletion sweeper started")

	// ──── Step 6: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		activitySessionHandler,
		lifecycleHandler,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		sweeper.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Inphrone Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
