package transfer

import (
	"context"
	"fmt"

	"github.com/bancarata/bankportal/internal/models"
	"github.com/bancarata/bankportal/internal/repository"
)

// AtomicBackend delegates the whole mutation to the transfer_funds stored
// procedure. The store guarantees both balance updates and the ledger insert
// succeed or fail together, so no compensation logic runs here.
type AtomicBackend struct {
	storage repository.Storage
}

func NewAtomicBackend(storage repository.Storage) *AtomicBackend {
	return &AtomicBackend{storage: storage}
}

func (b *AtomicBackend) Apply(ctx context.Context, p repository.TransferParams) (models.Transaction, error) {
	txID, createdAt, err := b.storage.Transactions().TransferFunds(ctx, p)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("transfer_funds: %w", err)
	}

	return models.Transaction{
		ID:                txID,
		Type:              models.TransactionTypeTransfer,
		Amount:            p.Amount,
		SourceCardID:      p.SourceCardID,
		DestCardID:        p.DestCardID,
		Description:       p.Description,
		StateID:           models.DefaultCompletedStateID,
		IdempotencyKey:    p.IdempotencyKey,
		AuthorizationCode: p.AuthCode,
		CreatedAt:         createdAt,
	}, nil
}
