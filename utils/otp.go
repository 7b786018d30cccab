package utils

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"time"

	"promptdeck/config"
	"promptdeck/models"
)

const (
	OTPLength = 6
	OTPExpiry = 15 * time.Minute
)

func GenerateOTP() (string, error) {
	const digits = "0123456789"
	otp := make([]byte, OTPLength)

	for i := range otp {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		otp[i] = digits[num.Int64()]
	}

	return string(otp), nil
}

func GenerateSecureToken() (string, error) {
	token := make([]byte, 32)
	if _, err := rand.Read(token); err != nil {
		return "", err
	}
	return hex.EncodeToString(token), nil
}

func SaveOTP(userID string, otp string) error {
	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		return err
	}

	user.OTP = otp
	user.OTPExpiresAt = time.Now().Add(OTPExpiry)

	return config.DB.Save(&user).Error
}

// VerifyOTP checks the emailed code and marks the user's email verified
// on a match. The code is single-use.
func VerifyOTP(userID string, otp string) (bool, error) {
	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		return false, err
	}

	if user.OTP == otp && user.OTP != "" && time.Now().Before(user.OTPExpiresAt) {
		user.OTP = ""
		user.OTPExpiresAt = time.Time{}
		user.EmailVerified = true
		if err := config.DB.Save(&user).Error; err != nil {
			return false, err
		}
		return true, nil
	}

	return false, nil
}
