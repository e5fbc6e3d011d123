// Package auth provides the credential primitives used by the auth service:
// salted password hashing and signed session tokens.
//
// Hashing uses argon2id over a fresh per-user random salt. The salt is
// 32 bytes of entropy, generated at every registration and never reused;
// verification recomputes the full hash over the stored salt and compares it
// in constant time.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const saltBytes = 32

// argon2id parameters (RFC 9106 low-memory profile).
const (
	argonTime    = 3
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// NewSalt returns a fresh hex-encoded random salt.
func NewSalt() (string, error) {
	buf := make([]byte, saltBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("auth: generate salt: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashPassword derives the stored hash for password under salt.
func HashPassword(password, salt string) string {
	sum := argon2.IDKey([]byte(password), []byte(salt), argonTime, argonMemory, argonThreads, argonKeyLen)
	return hex.EncodeToString(sum)
}

// CheckPassword recomputes the hash over the stored salt and compares the
// full digest against the stored value in constant time.
func CheckPassword(password, salt, storedHash string) bool {
	computed := HashPassword(password, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}
