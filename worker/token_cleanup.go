package worker

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"promptdeck/models"
)

// TokenCleanupWorker periodically deletes refresh tokens that are
// expired or revoked so the table does not grow without bound.
type TokenCleanupWorker struct {
	DB       *gorm.DB
	Logger   *log.Logger
	Interval time.Duration
}

func NewTokenCleanupWorker(db *gorm.DB, logger *log.Logger) *TokenCleanupWorker {
	return &TokenCleanupWorker{
		DB:       db,
		Logger:   logger,
		Interval: 1 * time.Hour,
	}
}

// Start runs the cleanup loop until the context is cancelled.
func (w *TokenCleanupWorker) Start(ctx context.Context) {
	w.Logger.Printf("Starting token cleanup worker (interval: %v)", w.Interval)

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	// Run once at startup before waiting for the first tick.
	w.CleanupExpiredTokens()

	for {
		select {
		case <-ctx.Done():
			w.Logger.Println("Token cleanup worker stopped")
			return
		case <-ticker.C:
			w.CleanupExpiredTokens()
		}
	}
}

// CleanupExpiredTokens removes refresh tokens that can no longer be used.
func (w *TokenCleanupWorker) CleanupExpiredTokens() {
	result := w.DB.Where("expires_at < ? OR is_revoked = ?", time.Now(), true).
		Delete(&models.RefreshToken{})
	if result.Error != nil {
		w.Logger.Printf("Failed to clean up refresh tokens: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		w.Logger.Printf("Cleaned up %d stale refresh tokens", result.RowsAffected)
	}
}
