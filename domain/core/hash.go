package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// HashPassword derives a salted password hash. The salt is stored alongside
// the hash, so verification recomputes with the persisted salt.
func HashPassword(password, salt string) Hash {
	return NewHash([]byte(salt + ":" + password))
}

// VerifyPassword checks a candidate password against a stored hash and salt.
func VerifyPassword(password, salt string, stored Hash) bool {
	return HashPassword(password, salt).Equals(stored)
}
