package apperrors

import (
	"errors"
)

var (
	ErrInvalidRequest = errors.New("invalid transfer request")

	ErrCardNotFound    = errors.New("card not found")
	ErrAccountNotFound = errors.New("account not found")
	ErrClientNotFound  = errors.New("client not found")
	ErrStateNotFound   = errors.New("transaction state not found")

	// Covers CVV, expiry and holder name mismatches. The failed check is kept
	// in the wrapped error text and must never reach the caller.
	ErrUnauthorized = errors.New("unauthorized")

	ErrInsufficientFunds = errors.New("insufficient funds")

	// A compensating write failed after a partial transfer. Balances stay
	// inconsistent until an operator reconciles them manually.
	ErrReconciliationRequired = errors.New("reconciliation required")

	ErrAlreadySubscribed = errors.New("email already subscribed")
	ErrRequestPending    = errors.New("account request already pending")
)
