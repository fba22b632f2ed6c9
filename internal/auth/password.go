package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultBcryptCost matches the rounds the existing credentials were produced with.
	DefaultBcryptCost = 12

	// bcrypt silently ignores input past this many bytes.
	bcryptMaxInput = 72

	fallbackScheme = "sha256"
	fallbackPrefix = fallbackScheme + "$"
)

// Hasher produces and checks stored password credentials.
//
// The primary format is bcrypt. Passwords longer than bcrypt's 72-byte input
// limit are reduced to their hex SHA-256 digest first, at hash and verify time
// alike. If bcrypt fails the credential is written as "sha256$<salt>$<digest>"
// instead, and Verify recognises that format by its prefix.
type Hasher struct {
	Cost int
}

func NewHasher(cost int) *Hasher {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	return &Hasher{Cost: cost}
}

// Hash returns the credential string to store for plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(bcryptInput(plaintext), h.Cost)
	if err == nil {
		return string(hashed), nil
	}
	return fallbackHash(plaintext)
}

// Verify reports whether plaintext matches the stored credential. Malformed
// credentials yield false.
func (h *Hasher) Verify(plaintext, credential string) bool {
	if strings.HasPrefix(credential, fallbackPrefix) {
		return verifyFallback(plaintext, credential)
	}
	return bcrypt.CompareHashAndPassword([]byte(credential), bcryptInput(plaintext)) == nil
}

func bcryptInput(plaintext string) []byte {
	b := []byte(plaintext)
	if len(b) > bcryptMaxInput {
		sum := sha256.Sum256(b)
		return []byte(hex.EncodeToString(sum[:]))
	}
	return b
}

func fallbackHash(plaintext string) (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	salt := hex.EncodeToString(raw)
	return fallbackPrefix + salt + "$" + saltedDigest(plaintext, salt), nil
}

func verifyFallback(plaintext, credential string) bool {
	parts := strings.SplitN(credential, "$", 3)
	if len(parts) != 3 || parts[0] != fallbackScheme {
		return false
	}
	want := saltedDigest(plaintext, parts[1])
	return subtle.ConstantTimeCompare([]byte(want), []byte(parts[2])) == 1
}

func saltedDigest(plaintext, salt string) string {
	sum := sha256.Sum256([]byte(plaintext + salt))
	return hex.EncodeToString(sum[:])
}
