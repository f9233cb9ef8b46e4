package main

import (
	"log"
	"net/http"
	"time"

	"github.com/bellapacxx/retro-backend/config"
	"github.com/bellapacxx/retro-backend/controllers"
	"github.com/bellapacxx/retro-backend/routes"
	"github.com/bellapacxx/retro-backend/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	db := config.ConnectDB(cfg.DatabaseURL)

	tiers := services.TierResolver{FullPermission: cfg.FullPermission}
	if cfg.FullPermission {
		log.Println("[INFO] FULL_PERMISSION enabled: all tier gates behave as pro")
	}

	hub := services.NewHub()
	api := controllers.NewAPI(
		services.NewUserService(db),
		services.NewSessionService(db, tiers, hub, cfg.FreeSessionLimit, cfg.FreeParticipantLimit),
		services.NewCardService(db, tiers, hub, cfg.FreeParticipantLimit),
		services.NewGroupService(db, hub),
		services.NewVoteService(db, tiers, hub),
		services.NewActionItemService(db, hub),
	)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, api)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now()})
	})

	// WebSocket feed of board changes, resolved by share link
	r.GET("/ws/:shareLink", hub.HandleWebSocket(db))

	log.Printf("🚀 Retro Backend server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("[FATAL] Failed to start server: %v", err)
	}
}
