package main

import (
	"context"
	"log"

	"github.com/mossy-p/peercall-signaling/config"
	"github.com/mossy-p/peercall-signaling/internal/handlers"
	"github.com/mossy-p/peercall-signaling/internal/middleware"
	"github.com/mossy-p/peercall-signaling/internal/presence"
	"github.com/mossy-p/peercall-signaling/internal/registry"
	"github.com/mossy-p/peercall-signaling/internal/rooms"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Optional Redis presence mirror; the relay runs fine without it
	var mirror *presence.Mirror
	if cfg.Redis.Addr != "" {
		var err error
		mirror, err = presence.Connect(context.Background(), cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer mirror.Close()
		log.Println("Redis presence mirror enabled")
	}

	// Relay state, owned here and handed to the signaling service
	signaling := handlers.NewSignaling(cfg, registry.New(), rooms.NewStore(), mirror)

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Global CORS middleware (runs before routing)
	router.Use(handlers.OriginFilter(cfg.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Room management API
	apiGroup := router.Group("/api")
	{
		// Login endpoint (public)
		apiGroup.POST("/auth/login", handlers.Login(cfg.JWTSecret))

		// Room inspection (public)
		apiGroup.GET("/rooms/:roomId", signaling.GetRoom)

		// Room listing and force-close (require JWT)
		apiGroup.GET("/rooms", middleware.JWTAuth(cfg.JWTSecret), signaling.ListRooms)
		apiGroup.DELETE("/rooms/:roomId", middleware.JWTAuth(cfg.JWTSecret), signaling.CloseRoom)
	}

	// WebSocket signaling endpoint
	wsGroup := router.Group("/ws")
	{
		wsGroup.GET("/signal", signaling.HandleSignaling)
	}

	// Start server
	log.Printf("Starting signaling relay on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
