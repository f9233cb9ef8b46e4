package main

import (
	"log"

	"github.com/bellapacxx/retro-backend/config"
)

func main() {
	cfg := config.Load()
	config.ConnectDB(cfg.DatabaseURL) // connects + migrates
	log.Println("✅ Database migration completed successfully")
}
