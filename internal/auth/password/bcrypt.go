// Package password hashes and verifies user credentials with bcrypt.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt only reads the first 72 bytes of its input and rejects longer
// passwords outright, so both sides truncate to that length.
const maxPasswordBytes = 72

type Hasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches hash. A non-nil error means the
	// stored hash is corrupted, never that the password was wrong.
	Verify(plaintext, hash string) (bool, error)
}

type Bcrypt struct {
	cost int
}

func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

func (b *Bcrypt) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(truncate(plaintext), b.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func (b *Bcrypt) Verify(plaintext, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), truncate(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("verify password: %w", err)
	}
}

func truncate(plaintext string) []byte {
	p := []byte(plaintext)
	if len(p) > maxPasswordBytes {
		p = p[:maxPasswordBytes]
	}
	return p
}
