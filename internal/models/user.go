package models

import (
	"strings"

	"golang.org/x/text/cases"
)

type User struct {
	ID             int64  `json:"id" db:"id"`
	Username       string `json:"username" db:"username"`
	Email          string `json:"email" db:"email"`
	HashedPassword string `json:"-" db:"hashed_password"`
}

// NormalizeEmail returns the lookup key used for email uniqueness: trimmed
// and Unicode case-folded. The address itself is stored as given.
func NormalizeEmail(email string) string {
	// A Caser is stateful, so one is built per call.
	return cases.Fold().String(strings.TrimSpace(email))
}

// DeriveUsername returns the local part of an email address.
func DeriveUsername(email string) string {
	email = strings.TrimSpace(email)
	if i := strings.LastIndex(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}
