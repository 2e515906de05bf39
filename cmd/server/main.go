package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Crimson25/zulip/internal/config"
	"github.com/Crimson25/zulip/internal/database"
	"github.com/Crimson25/zulip/internal/handler"
	"github.com/Crimson25/zulip/internal/middleware"
	"github.com/Crimson25/zulip/internal/repository"
	"github.com/Crimson25/zulip/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg := config.Load()

	// Database
	db, err := database.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(context.Background(), db); err != nil {
		log.Fatalf("Failed to bootstrap schema: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	streamRepo := repository.NewStreamRepository(db)
	recipientRepo := repository.NewRecipientRepository(db)
	draftRepo := repository.NewDraftRepository(db)

	// Services
	authSvc := service.NewAuthService(cfg.JWTSecret)
	userSvc := service.NewUserService(userRepo)
	streamSvc := service.NewStreamService(streamRepo)
	recipientSvc := service.NewRecipientService(recipientRepo)
	draftSvc := service.NewDraftService(streamSvc, userSvc, recipientSvc, draftRepo, cfg.Limits)
	wsHub := service.NewWSHub()

	// Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
		BodyLimit:    1 * 1024 * 1024, // 1MB
	})

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())

	// Health
	healthH := handler.NewHealthHandler(db)
	app.Get("/health", healthH.Health)
	app.Get("/ready", healthH.Ready)

	// API v1
	v1 := app.Group("/api/v1")

	// Admin — registered BEFORE protected group
	admin := v1.Group("/admin", middleware.AdminKey(cfg.AdminKey))
	adminH := handler.NewAdminHandler(userRepo, draftRepo, wsHub)
	admin.Get("/stats", adminH.Stats)
	admin.Post("/notice", adminH.Notice)

	// JWT-protected routes (catch-all — must be LAST)
	protected := v1.Group("", middleware.Auth(cfg.JWTSecret))

	// Drafts
	draftH := handler.NewDraftHandler(draftSvc, userSvc, wsHub)
	protected.Post("/drafts", draftH.Create)
	protected.Get("/drafts", draftH.List)

	// WebSocket
	wsH := handler.NewWSHandler(wsHub, authSvc)
	app.Get("/ws", wsH.Upgrade)

	// Start hub
	go wsHub.Run()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	log.Printf("Drafts API running on :%s (%s)", cfg.Port, cfg.Env)

	<-quit
	log.Println("Shutting down...")
	_ = app.ShutdownWithTimeout(5 * time.Second)
	wsHub.Shutdown()
	log.Println("Server stopped")
}
