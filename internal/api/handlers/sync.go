package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cardhaus/deck-checker/internal/services"
)

type SyncHandler struct {
	sync *services.SyncService
}

func NewSyncHandler(sync *services.SyncService) *SyncHandler {
	return &SyncHandler{sync: sync}
}

// Status handles GET /api/sync/status: the most recent audit row plus
// current inventory counts.
func (h *SyncHandler) Status(c *gin.Context) {
	lastRun, err := h.sync.LastRun()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if lastRun == nil {
		c.JSON(http.StatusOK, gin.H{"status": "never_synced"})
		return
	}

	stats, err := h.sync.InventoryStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lastSync":  lastRun,
		"inventory": stats,
	})
}

// Trigger handles POST /api/sync/trigger: fires a sync in the
// background and returns without waiting for completion.
func (h *SyncHandler) Trigger(c *gin.Context) {
	if h.sync.Running() {
		c.JSON(http.StatusConflict, gin.H{"error": "sync already in progress"})
		return
	}

	go func() {
		if _, err := h.sync.SyncInventory(context.Background()); err != nil {
			log.Printf("Triggered sync failed: %v", err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{"message": "sync started"})
}
