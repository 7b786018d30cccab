package worker_test

import (
	"context"
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"promptdeck/config"
	"promptdeck/models"
	"promptdeck/worker"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.MigrateDB(db))
	return db
}

func seedToken(t *testing.T, db *gorm.DB, userID string, expiresAt time.Time, revoked bool) {
	t.Helper()

	require.NoError(t, db.Create(&models.RefreshToken{
		UserID:    userID,
		TokenHash: uuid.NewString(),
		ExpiresAt: expiresAt,
		IsRevoked: revoked,
	}).Error)
}

func TestCleanupExpiredTokens(t *testing.T) {
	db := setupTestDB(t)

	user := &models.User{Email: "user@example.com", PasswordHash: "x", IsActive: true, TokenVersion: 1}
	require.NoError(t, db.Create(user).Error)

	seedToken(t, db, user.ID, time.Now().Add(-time.Hour), false) // expired
	seedToken(t, db, user.ID, time.Now().Add(time.Hour), true)   // revoked
	seedToken(t, db, user.ID, time.Now().Add(time.Hour), false)  // live

	w := worker.NewTokenCleanupWorker(db, log.New(io.Discard, "", 0))
	w.CleanupExpiredTokens()

	var remaining []models.RefreshToken
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.False(t, remaining[0].IsRevoked)
	assert.True(t, remaining[0].ExpiresAt.After(time.Now()))
}

func TestCleanupNoopOnCleanTable(t *testing.T) {
	db := setupTestDB(t)

	w := worker.NewTokenCleanupWorker(db, log.New(io.Discard, "", 0))
	w.CleanupExpiredTokens()

	var count int64
	require.NoError(t, db.Model(&models.RefreshToken{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestStartStopsOnContextCancel(t *testing.T) {
	db := setupTestDB(t)

	w := worker.NewTokenCleanupWorker(db, log.New(io.Discard, "", 0))
	w.Interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancellation")
	}
}
