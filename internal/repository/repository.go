package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bancarata/bankportal/internal/models"
)

// Card repository interface
// Cards are provisioned out of band and read-only here
type CardRepo interface {
	// If no card carries the number must return apperrors.ErrCardNotFound
	GetByNumber(ctx context.Context, number string) (models.Card, error)
}

// Account repository interface
type AccountRepo interface {
	// If account not found must return apperrors.ErrAccountNotFound
	GetByID(ctx context.Context, id int64) (models.Account, error)

	// Debit subtracts amount from the account balance.
	// Must return apperrors.ErrInsufficientFunds when the balance would go
	// negative and leave the row untouched in that case.
	Debit(ctx context.Context, id int64, amount decimal.Decimal) error

	// Credit adds amount to the account balance
	Credit(ctx context.Context, id int64, amount decimal.Decimal) error
}

// Client repository interface
type ClientRepo interface {
	// If client not found must return apperrors.ErrClientNotFound
	GetByID(ctx context.Context, id int64) (models.Client, error)
}

// TransferParams carries everything the ledger needs to record a transfer
type TransferParams struct {
	SourceAccountID int64
	DestAccountID   int64
	SourceCardID    int64
	DestCardID      int64
	Amount          decimal.Decimal
	Description     string
	IdempotencyKey  *string
	AuthCode        string
}

// Transaction ledger interface
type TransactionRepo interface {
	// If state not found must return apperrors.ErrStateNotFound
	GetStateIDByName(ctx context.Context, name string) (int64, error)

	// Create inserts a ledger row and returns it with the assigned id and
	// server timestamp
	Create(ctx context.Context, t models.Transaction) (models.Transaction, error)

	// GetByIdempotencyKey returns the ledger row previously recorded for the
	// key; found is false when the key was never used.
	GetByIdempotencyKey(ctx context.Context, key string) (models.Transaction, bool, error)

	// TransferFunds runs the atomic stored procedure: both balance updates
	// and the ledger insert succeed or fail together.
	TransferFunds(ctx context.Context, p TransferParams) (txID int64, createdAt time.Time, err error)

	// ListRecent returns the newest ledger rows, newest first
	ListRecent(ctx context.Context, limit int) ([]models.Transaction, error)
}

// Storage aggregates the relational repositories
type Storage interface {
	Cards() CardRepo
	Accounts() AccountRepo
	Clients() ClientRepo
	Transactions() TransactionRepo

	// InTx runs fn against a storage bound to a single database transaction
	InTx(ctx context.Context, fn func(Storage) error) error
}

// SubscriptionRepo keeps newsletter signups in the document store
type SubscriptionRepo interface {
	// Subscribe stores the (lowercased) email.
	// Must return apperrors.ErrAlreadySubscribed on duplicates.
	Subscribe(ctx context.Context, email string) (models.Subscription, error)

	IsSubscribed(ctx context.Context, email string) (bool, error)
}

// AccountRequestRepo keeps account-opening applications in the document store
type AccountRequestRepo interface {
	Create(ctx context.Context, req models.AccountRequest) (models.AccountRequest, error)

	// HasPending reports whether a request with status PENDIENTE exists for
	// the INE number
	HasPending(ctx context.Context, ineNumber string) (bool, error)
}
