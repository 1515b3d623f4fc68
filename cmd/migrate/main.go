package main

import (
	"log"

	"library-management-be/internal/config"
	"library-management-be/internal/model"
	"library-management-be/pkg/database"
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, true)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM migration...")
	if err := model.Migrate(db); err != nil {
		log.Fatalf("Error: %v", err)
	}
	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
