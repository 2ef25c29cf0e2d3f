package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12

	minPinLength = 4
	maxPinLength = 6
)

// ErrInvalidPinFormat is returned for PINs that are not 4 to 6 digits.
var ErrInvalidPinFormat = errors.New("transaction PIN must be 4 to 6 digits")

var (
	bcryptGenerateFromPassword = bcrypt.GenerateFromPassword
	randomRead                 = rand.Read
)

// ValidatePinFormat checks that pin is 4 to 6 ASCII digits.
func ValidatePinFormat(pin string) error {
	if len(pin) < minPinLength || len(pin) > maxPinLength {
		return ErrInvalidPinFormat
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return ErrInvalidPinFormat
		}
	}
	return nil
}

// HashPin hashes a transaction PIN using bcrypt
func HashPin(pin string) (string, error) {
	if err := ValidatePinFormat(pin); err != nil {
		return "", err
	}
	bytes, err := bcryptGenerateFromPassword([]byte(pin), DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash pin: %w", err)
	}
	return string(bytes), nil
}

// CheckPin compares a PIN with its bcrypt hash
func CheckPin(pin, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}

// GenerateRandomToken returns length random bytes hex-encoded
func GenerateRandomToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := randomRead(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
