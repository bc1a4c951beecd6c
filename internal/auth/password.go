package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 16
	kdfRounds  = 100_000
	kdfKeySize = sha256.Size
)

// HashPassword derives a salted PBKDF2-SHA256 hash with a fresh per-user
// salt and returns it in salt:hash hex form.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	hash := pbkdf2.Key([]byte(password), salt, kdfRounds, kdfKeySize, sha256.New)
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(hash), nil
}

// VerifyPassword recomputes the hash with the stored salt and compares it
// against the stored hex encoding.
func VerifyPassword(stored, candidate string) bool {
	saltHex, hashHex, ok := strings.Cut(stored, ":")
	if !ok {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	hash := pbkdf2.Key([]byte(candidate), salt, kdfRounds, kdfKeySize, sha256.New)
	return hex.EncodeToString(hash) == hashHex
}
