package auth

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const minPassphraseLength = 8

var accessCodePattern = regexp.MustCompile(`^\d{6}$`)

// NormalizeAccessCode validates the 6-digit account access code.
func NormalizeAccessCode(raw string) (string, error) {
	code := strings.TrimSpace(raw)
	if code == "" {
		return "", fmt.Errorf("access code is required")
	}
	if !accessCodePattern.MatchString(code) {
		return "", fmt.Errorf("access code must be a 6-digit number")
	}
	return code, nil
}

// ValidatePassphrase checks minimal passphrase requirements.
func ValidatePassphrase(passphrase string) error {
	if len(passphrase) < minPassphraseLength {
		return fmt.Errorf("passphrase must be at least %d characters", minPassphraseLength)
	}
	return nil
}

// HashPassphrase returns a bcrypt hash for storage.
func HashPassphrase(passphrase string) (string, error) {
	if err := ValidatePassphrase(passphrase); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassphrase reports whether passphrase matches the stored hash.
func VerifyPassphrase(hash, passphrase string) bool {
	if strings.TrimSpace(hash) == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(passphrase)) == nil
}
