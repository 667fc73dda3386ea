package database

import (
	"log"

	"gorm.io/gorm"
)

// RunMigrations applies schema fixups AutoMigrate does not manage.
func RunMigrations(db *gorm.DB) error {
	// The matcher looks cards up by LOWER(card_name); AutoMigrate cannot
	// express an expression index, so create it here.
	result := db.Exec(`CREATE INDEX IF NOT EXISTS idx_products_card_name_lower ON products (LOWER(card_name))`)
	if result.Error != nil {
		return result.Error
	}

	// Legacy databases carried quantity as NULL instead of 0.
	result = db.Exec(`UPDATE variants SET quantity = 0 WHERE quantity IS NULL`)
	if result.Error != nil {
		log.Printf("Warning: failed to normalize variant quantities: %v", result.Error)
	} else if result.RowsAffected > 0 {
		log.Printf("Normalized %d variant quantity values", result.RowsAffected)
	}

	return nil
}
