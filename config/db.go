package config

import (
	"log"

	"github.com/bellapacxx/retro-backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// ConnectDB connects to the database and runs migrations.
func ConnectDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("[FATAL] Failed to connect to database: %v", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("[FATAL] Migration failed: %v", err)
	}

	DB = db
	log.Println("✅ Database connected and migrated")
	return db
}

// Migrate creates or updates the schema for all board entities.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Column{},
		&models.Card{},
		&models.Group{},
		&models.Vote{},
		&models.ActionItem{},
	)
}
