package database

import (
	"log"

	"github.com/cardhaus/deck-checker/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Initialize(dbPath string) error {
	var err error
	// _fk=1 turns on sqlite foreign keys so variant rows cascade away
	// with their product.
	DB, err = gorm.Open(sqlite.Open(dbPath+"?_fk=1"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return err
	}

	log.Println("Database connected successfully")

	// Auto-migrate the schema
	err = DB.AutoMigrate(&models.Product{}, &models.Variant{}, &models.SyncRun{})
	if err != nil {
		return err
	}

	if err := RunMigrations(DB); err != nil {
		return err
	}

	log.Println("Database migration completed")
	return nil
}

func GetDB() *gorm.DB {
	return DB
}
