package models

import (
	"time"
)

type SyncStatus string

const (
	SyncStatusRunning   SyncStatus = "running"
	SyncStatusCompleted SyncStatus = "completed"
	SyncStatusFailed    SyncStatus = "failed"
)

// SyncRun is one row per sync invocation. Rows are never deleted; the
// table is an append-only audit trail.
type SyncRun struct {
	ID           uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	StartedAt    time.Time  `json:"started_at" gorm:"not null"`
	FinishedAt   *time.Time `json:"finished_at"`
	ProductCount int        `json:"product_count"`
	VariantCount int        `json:"variant_count"`
	Status       SyncStatus `json:"status" gorm:"not null;default:'running';index"`
	Error        *string    `json:"error,omitempty"`
}

// SyncResult is returned to the caller of a completed sync.
type SyncResult struct {
	ProductCount   int     `json:"product_count"`
	VariantCount   int     `json:"variant_count"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}
