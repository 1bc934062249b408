package model

import (
	"strings"
	"time"
)

// AccountID uniquely identifies an account across the system
type AccountID string

// StartingBalance is the credit grant given to every new account and
// every fresh anonymous session
const StartingBalance int64 = 1000

// MinHandleLength is the minimum length of a normalized handle, in characters
const MinHandleLength = 3

// Account is a durable identity with a persisted balance
type Account struct {
	ID         AccountID
	Handle     string // stored normalized (lowercase, trimmed)
	SecretHash string // bcrypt hash of the login password
	Balance    int64
	Linked     *LinkedIdentity // nil when no third-party identity is linked
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// LinkedIdentity records a linked third-party identity.
// The secret is stored one-way hashed, so it cannot be recovered from the
// account table; lookup by raw secret is a linear scan over linked accounts.
type LinkedIdentity struct {
	SecretHash  string
	DisplayName string
	ProfileRef  string
}

// NormalizeHandle lowercases and trims a handle for storage and comparison.
// Handle uniqueness is always checked against the normalized form.
func NormalizeHandle(handle string) string {
	return strings.ToLower(strings.TrimSpace(handle))
}
