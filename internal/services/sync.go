package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cardhaus/deck-checker/internal/metrics"
	"github.com/cardhaus/deck-checker/internal/models"
)

// ErrSyncInProgress is returned when a sync is triggered while another
// run holds the single-flight guard.
var ErrSyncInProgress = errors.New("inventory sync already in progress")

// CatalogFetcher is the upstream side of a sync. *ShopifyClient is the
// production implementation.
type CatalogFetcher interface {
	FetchAllProducts(ctx context.Context) ([]RawProduct, error)
}

// SyncService mirrors the store's catalog into the local database:
// full fetch, transactional upsert, stale-row deletion, and one audit
// row per run.
type SyncService struct {
	db      *gorm.DB
	fetcher CatalogFetcher
	domain  string

	// mu makes overlapping triggers (manual during scheduled) safe.
	mu sync.Mutex
}

func NewSyncService(db *gorm.DB, fetcher CatalogFetcher, domain string) *SyncService {
	return &SyncService{db: db, fetcher: fetcher, domain: domain}
}

// Running reports whether a sync currently holds the single-flight
// guard. Advisory only; SyncInventory re-checks under the lock.
func (s *SyncService) Running() bool {
	if s.mu.TryLock() {
		s.mu.Unlock()
		return false
	}
	return true
}

// SyncInventory runs one full catalog sync. Every failure is recorded
// on the run's audit row and returned wrapped in SyncError; retry
// policy belongs to the caller.
func (s *SyncService) SyncInventory(ctx context.Context) (*models.SyncResult, error) {
	if !s.mu.TryLock() {
		return nil, ErrSyncInProgress
	}
	defer s.mu.Unlock()

	start := time.Now()
	run := models.SyncRun{StartedAt: start, Status: models.SyncStatusRunning}
	if err := s.db.Create(&run).Error; err != nil {
		return nil, &SyncError{Err: fmt.Errorf("failed to open sync run: %w", err)}
	}

	log.Printf("Sync run %d: fetching catalog", run.ID)

	// The fetch is network-bound; no transaction is held during it.
	products, err := s.fetcher.FetchAllProducts(ctx)
	if err != nil {
		s.finishRun(&run, 0, 0, err)
		return nil, &SyncError{Err: err}
	}

	productCount, variantCount, err := s.writeCatalog(products)
	if err != nil {
		s.finishRun(&run, 0, 0, err)
		return nil, &SyncError{Err: err}
	}

	s.finishRun(&run, productCount, variantCount, nil)

	elapsed := time.Since(start)
	metrics.SyncDuration.Observe(elapsed.Seconds())
	metrics.SyncProducts.Set(float64(productCount))
	metrics.SyncVariants.Set(float64(variantCount))
	log.Printf("Sync run %d: completed, %d products / %d variants in %v", run.ID, productCount, variantCount, elapsed.Round(time.Millisecond))

	return &models.SyncResult{
		ProductCount:   productCount,
		VariantCount:   variantCount,
		ElapsedSeconds: elapsed.Seconds(),
	}, nil
}

// writeCatalog upserts every fetched product and variant and deletes
// rows the store no longer lists, all inside one transaction. A failure
// rolls back the whole write; prior runs' data is untouched.
func (s *SyncService) writeCatalog(products []RawProduct) (int, int, error) {
	productCount := 0
	variantCount := 0
	seen := make([]int64, 0, len(products))

	err := s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		for _, rp := range products {
			productID, ok := ExtractNumericID(rp.ID)
			if !ok {
				log.Printf("Warning: skipping product with unparseable id %q", rp.ID)
				continue
			}

			cardName, setName := ParseProductTitle(rp.Title)
			if setName == nil {
				log.Printf("Sync: no set name in title %q, keeping full title as card name", rp.Title)
			}

			product := models.Product{
				ID:         productID,
				Title:      rp.Title,
				CardName:   cardName,
				SetName:    setName,
				Handle:     rp.Handle,
				ImageURL:   rp.Featured.URL,
				ProductURL: fmt.Sprintf("https://%s/products/%s", normalizeShopDomain(s.domain), rp.Handle),
				UpdatedAt:  now,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"title", "card_name", "set_name", "handle", "image_url", "product_url", "updated_at",
				}),
			}).Create(&product).Error; err != nil {
				return fmt.Errorf("failed to upsert product %d: %w", productID, err)
			}
			seen = append(seen, productID)
			productCount++

			for _, edge := range rp.Variants.Edges {
				rv := edge.Node
				variantID, ok := ExtractNumericID(rv.ID)
				if !ok {
					log.Printf("Warning: skipping variant with unparseable id %q (product %d)", rv.ID, productID)
					continue
				}

				condition, finish := ParseVariantOptions(rv)
				price, err := strconv.ParseFloat(rv.Price, 64)
				if err != nil {
					log.Printf("Warning: unparseable price %q on variant %d, storing 0", rv.Price, variantID)
					price = 0
				}

				variant := models.Variant{
					ID:        variantID,
					ProductID: productID,
					Condition: condition,
					Finish:    finish,
					Price:     price,
					Quantity:  rv.InventoryQuantity,
					SKU:       rv.SKU,
					UpdatedAt: now,
				}
				if err := tx.Clauses(clause.OnConflict{
					Columns: []clause.Column{{Name: "id"}},
					DoUpdates: clause.AssignmentColumns([]string{
						"product_id", "condition", "finish", "price", "quantity", "sku", "updated_at",
					}),
				}).Create(&variant).Error; err != nil {
					return fmt.Errorf("failed to upsert variant %d: %w", variantID, err)
				}
				variantCount++
			}
		}

		// Full-replace reconciliation: anything not in this fetch is
		// gone from the store and must go here too. Variants are
		// removed explicitly so the cleanup does not depend on the
		// sqlite foreign_keys pragma.
		var staleVariants, staleProducts *gorm.DB
		if len(seen) > 0 {
			staleVariants = tx.Where("product_id NOT IN ?", seen).Delete(&models.Variant{})
			staleProducts = tx.Where("id NOT IN ?", seen).Delete(&models.Product{})
		} else {
			staleVariants = tx.Where("1 = 1").Delete(&models.Variant{})
			staleProducts = tx.Where("1 = 1").Delete(&models.Product{})
		}
		if staleVariants.Error != nil {
			return fmt.Errorf("failed to delete stale variants: %w", staleVariants.Error)
		}
		if staleProducts.Error != nil {
			return fmt.Errorf("failed to delete stale products: %w", staleProducts.Error)
		}
		if staleProducts.RowsAffected > 0 {
			metrics.ProductsDeleted.Add(float64(staleProducts.RowsAffected))
			log.Printf("Sync: removed %d stale products", staleProducts.RowsAffected)
		}

		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return productCount, variantCount, nil
}

// finishRun writes the terminal state of the audit row. The row always
// gets a finish timestamp, even on failure.
func (s *SyncService) finishRun(run *models.SyncRun, productCount, variantCount int, cause error) {
	now := time.Now()
	run.FinishedAt = &now
	run.ProductCount = productCount
	run.VariantCount = variantCount
	if cause != nil {
		msg := cause.Error()
		run.Status = models.SyncStatusFailed
		run.Error = &msg
		metrics.SyncRunsTotal.WithLabelValues("failed").Inc()
		log.Printf("Sync run %d: failed: %v", run.ID, cause)
	} else {
		run.Status = models.SyncStatusCompleted
		metrics.SyncRunsTotal.WithLabelValues("completed").Inc()
	}
	if err := s.db.Save(run).Error; err != nil {
		log.Printf("Warning: failed to finalize sync run %d: %v", run.ID, err)
	}
}

// LastRun returns the most recent sync audit row, or nil when no sync
// has ever run.
func (s *SyncService) LastRun() (*models.SyncRun, error) {
	var run models.SyncRun
	err := s.db.Order("id DESC").First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// InventoryStats counts the current products, variants and total stock.
func (s *SyncService) InventoryStats() (*models.InventoryStats, error) {
	var stats models.InventoryStats
	if err := s.db.Model(&models.Product{}).Count(&stats.Products).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Variant{}).Count(&stats.Variants).Error; err != nil {
		return nil, err
	}
	row := s.db.Model(&models.Variant{}).Select("COALESCE(SUM(quantity), 0)").Row()
	if err := row.Scan(&stats.TotalStock); err != nil {
		return nil, err
	}
	return &stats, nil
}
