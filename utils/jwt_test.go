package utils_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"promptdeck/config"
	"promptdeck/models"
	"promptdeck/utils"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.MigrateDB(db))

	config.DB = db
	config.AppConfig.JWTSecret = "test-secret"

	return db
}

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := &models.User{
		Email:        "user@example.com",
		PasswordHash: "irrelevant",
		Role:         models.RoleMember,
		IsActive:     true,
		TokenVersion: 1,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestGenerateAndParseJWTToken(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	accessToken, refreshToken, err := utils.GenerateJWTToken(user, "test-agent", "127.0.0.1")
	require.NoError(t, err)
	require.NotEmpty(t, accessToken)
	require.NotEmpty(t, refreshToken)

	claims, err := utils.ParseJWTToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleMember, claims.Role)
	assert.Equal(t, 1, claims.TokenVersion)

	// The refresh token hash is persisted for later revocation
	var record models.RefreshToken
	require.NoError(t, db.Where("token_hash = ?", utils.HashToken(refreshToken)).First(&record).Error)
	assert.Equal(t, user.ID, record.UserID)
	assert.Equal(t, "test-agent", record.UserAgent)
	assert.False(t, record.IsRevoked)
}

func TestGenerateJWTTokenUniquePerIssue(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	// Back-to-back issuance lands on the same iat second; each pair
	// must still be distinct and persist its own refresh token row
	_, firstRefresh, err := utils.GenerateJWTToken(user, "test-agent", "127.0.0.1")
	require.NoError(t, err)
	_, secondRefresh, err := utils.GenerateJWTToken(user, "test-agent", "127.0.0.1")
	require.NoError(t, err)

	assert.NotEqual(t, firstRefresh, secondRefresh)
	assert.NotEqual(t, utils.HashToken(firstRefresh), utils.HashToken(secondRefresh))

	var count int64
	require.NoError(t, db.Model(&models.RefreshToken{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestParseJWTTokenWrongSecret(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	accessToken, _, err := utils.GenerateJWTToken(user, "test-agent", "127.0.0.1")
	require.NoError(t, err)

	config.AppConfig.JWTSecret = "another-secret"
	_, err = utils.ParseJWTToken(accessToken)
	assert.Error(t, err)
}

func TestRefreshTokensRotation(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	_, refreshToken, err := utils.GenerateJWTToken(user, "test-agent", "127.0.0.1")
	require.NoError(t, err)

	newAccess, newRefresh, err := utils.RefreshTokens(refreshToken, "test-agent", "127.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, newAccess)
	assert.NotEqual(t, refreshToken, newRefresh)

	// The used token is revoked, a second rotation with it must fail
	_, _, err = utils.RefreshTokens(refreshToken, "test-agent", "127.0.0.1")
	assert.Error(t, err)
}

func TestRefreshTokensRejectsStaleVersion(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	_, refreshToken, err := utils.GenerateJWTToken(user, "test-agent", "127.0.0.1")
	require.NoError(t, err)

	require.NoError(t, db.Model(user).Update("token_version", 2).Error)

	_, _, err = utils.RefreshTokens(refreshToken, "test-agent", "127.0.0.1")
	assert.Error(t, err)
}

func TestRefreshTokensRejectsExpiredRecord(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	_, refreshToken, err := utils.GenerateJWTToken(user, "test-agent", "127.0.0.1")
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.RefreshToken{}).
		Where("token_hash = ?", utils.HashToken(refreshToken)).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)

	_, _, err = utils.RefreshTokens(refreshToken, "test-agent", "127.0.0.1")
	assert.Error(t, err)
}

func TestRevokeRefreshTokenIdempotent(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	_, refreshToken, err := utils.GenerateJWTToken(user, "test-agent", "127.0.0.1")
	require.NoError(t, err)

	require.NoError(t, utils.RevokeRefreshToken(refreshToken))
	require.NoError(t, utils.RevokeRefreshToken(refreshToken))
	require.NoError(t, utils.RevokeRefreshToken("never-issued"))

	var record models.RefreshToken
	require.NoError(t, db.Where("token_hash = ?", utils.HashToken(refreshToken)).First(&record).Error)
	assert.True(t, record.IsRevoked)
}

func TestHashTokenDeterministic(t *testing.T) {
	assert.Equal(t, utils.HashToken("abc"), utils.HashToken("abc"))
	assert.NotEqual(t, utils.HashToken("abc"), utils.HashToken("abd"))
	assert.Len(t, utils.HashToken("abc"), 64)
}
