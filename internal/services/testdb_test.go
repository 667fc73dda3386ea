package services

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cardhaus/deck-checker/internal/models"
)

// newTestDB opens an isolated in-memory sqlite database migrated with
// the full schema. The shared-cache name keeps one database across the
// pool's connections.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.Variant{}, &models.SyncRun{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func strPtr(s string) *string {
	return &s
}

// seedProduct inserts a product with one or more variants.
func seedProduct(t *testing.T, db *gorm.DB, product models.Product, variants ...models.Variant) {
	t.Helper()
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("failed to seed product %d: %v", product.ID, err)
	}
	for _, v := range variants {
		v.ProductID = product.ID
		if err := db.Create(&v).Error; err != nil {
			t.Fatalf("failed to seed variant %d: %v", v.ID, err)
		}
	}
}
