package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the cost factor for bcrypt hashing.
const bcryptCost = 10

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(bytes), nil
}

// VerifyPassword verifies a password against a bcrypt hash.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// dummyHash is compared against when a login lookup misses, so that missing
// and existing accounts take the same time to reject.
var dummyHash string

func init() {
	h, err := HashPassword("timing-mitigation-dummy")
	if err == nil {
		dummyHash = h
	}
}

// VerifyDummy burns a bcrypt comparison without revealing anything.
func VerifyDummy(password string) {
	VerifyPassword(dummyHash, password)
}
