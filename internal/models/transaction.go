package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionTypeTransfer = "TRANSFERENCIA"

	StateCompleted = "COMPLETADA"
	StateRejected  = "RECHAZADA"

	// Used when the transaction_states lookup itself is unavailable.
	// Seeded by the initial migration as the COMPLETADA row.
	DefaultCompletedStateID = 1
)

type TransactionState struct {
	ID   int64
	Name string
}

// Transaction is an immutable ledger row. It is inserted exactly once per
// successful transfer and never updated afterwards.
type Transaction struct {
	ID                int64
	Type              string
	Amount            decimal.Decimal
	SourceCardID      int64
	DestCardID        int64
	Description       string
	StateID           int64
	StateName         string
	IdempotencyKey    *string
	AuthorizationCode string
	CreatedAt         time.Time
}
