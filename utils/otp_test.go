package utils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptdeck/models"
	"promptdeck/utils"
)

func TestGenerateOTP(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		otp, err := utils.GenerateOTP()
		require.NoError(t, err)
		require.Len(t, otp, utils.OTPLength)
		for _, r := range otp {
			assert.True(t, r >= '0' && r <= '9')
		}
		seen[otp] = true
	}
	// 20 identical codes would mean the generator is broken
	assert.Greater(t, len(seen), 1)
}

func TestVerifyOTPLifecycle(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	otp, err := utils.GenerateOTP()
	require.NoError(t, err)
	require.NoError(t, utils.SaveOTP(user.ID, otp))

	valid, err := utils.VerifyOTP(user.ID, "000000")
	require.NoError(t, err)
	assert.False(t, valid)

	valid, err = utils.VerifyOTP(user.ID, otp)
	require.NoError(t, err)
	assert.True(t, valid)

	var updated models.User
	require.NoError(t, db.First(&updated, "id = ?", user.ID).Error)
	assert.True(t, updated.EmailVerified)

	// Single use
	valid, err = utils.VerifyOTP(user.ID, otp)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestVerifyOTPExpired(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	require.NoError(t, db.Model(user).Updates(map[string]interface{}{
		"otp":            "123456",
		"otp_expires_at": time.Now().Add(-time.Minute),
	}).Error)

	valid, err := utils.VerifyOTP(user.ID, "123456")
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestGenerateSecureToken(t *testing.T) {
	a, err := utils.GenerateSecureToken()
	require.NoError(t, err)
	b, err := utils.GenerateSecureToken()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
