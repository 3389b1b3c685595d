package ledger

import "errors"

var (
	// ErrInsufficientBalance is returned when a controlled debit would take
	// the balance below zero. No mutation happens.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrUserNotFound is returned when the ledger account does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidAmount is returned for zero or negative amounts.
	ErrInvalidAmount = errors.New("amount must be positive")
)
