// Copyright (c) 2026 Kritika. All rights reserved.
// Author: mkazennov.dev@gmail.com

package sec

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ConfirmationCodeBytes is the entropy of a generated confirmation code.
// 20 bytes yields a 40-character hex code, comfortably beyond brute force
// within the code's TTL.
const ConfirmationCodeBytes = 20

// NewConfirmationCode generates a cryptographically random confirmation code.
//
// The code is the sole credential in the signup flow (there are no passwords),
// so it comes from crypto/rand, never math/rand.
func NewConfirmationCode() (string, error) {
	buffer := make([]byte, ConfirmationCodeBytes)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to generate confirmation code: %w", err)
	}
	return hex.EncodeToString(buffer), nil
}

// HashCode hashes a confirmation code with bcrypt before storage.
//
// Only the hash is persisted; a leaked code store cannot be replayed.
func HashCode(plainCode string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainCode), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash confirmation code: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckCode compares a plain confirmation code with its stored hash.
func CheckCode(plainCode, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainCode))
	return err == nil
}
