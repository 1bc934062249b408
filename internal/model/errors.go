package model

import "errors"

// Common errors used across the application
var (
	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrHandleTaken     = errors.New("handle already taken")

	// Wager errors
	ErrNonPositiveStake    = errors.New("stake must be positive")
	ErrInsufficientBalance = errors.New("insufficient balance for stake")
)
