package model

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate creates the extensions the schema relies on and then
// auto-migrates every table. It is idempotent.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		return fmt.Errorf("create pgcrypto extension: %w", err)
	}

	// order matters: books reference users and categories
	models := []interface{}{
		&User{},
		&UserProvider{},
		&Category{},
		&Book{},
		&FeePayment{},
		&Notification{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}
