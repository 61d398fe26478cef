package transfer

import (
	"context"
	"errors"
	"fmt"

	"github.com/bancarata/bankportal/internal/apperrors"
	"github.com/bancarata/bankportal/internal/logger"
	"github.com/bancarata/bankportal/internal/models"
	"github.com/bancarata/bankportal/internal/repository"
)

// CompensatingBackend applies the debit, the credit and the ledger insert as
// three separate store calls. When a later step fails it issues compensating
// writes to restore the earlier ones. A compensating write that itself fails
// leaves the store inconsistent and is reported as ErrReconciliationRequired
// for manual follow-up; there is no automatic retry.
type CompensatingBackend struct {
	storage repository.Storage
	logger  logger.Logger
}

func NewCompensatingBackend(storage repository.Storage, l logger.Logger) *CompensatingBackend {
	if l == nil {
		l = logger.NewNoOp()
	}

	return &CompensatingBackend{storage: storage, logger: l}
}

func (b *CompensatingBackend) Apply(ctx context.Context, p repository.TransferParams) (models.Transaction, error) {
	var recorded models.Transaction
	accounts := b.storage.Accounts()

	// Step 1: debit the source. Nothing mutated yet, so a failure here needs
	// no compensation.
	if err := accounts.Debit(ctx, p.SourceAccountID, p.Amount); err != nil {
		return recorded, fmt.Errorf("debit source account %d: %w", p.SourceAccountID, err)
	}

	// Step 2: credit the destination. On failure put the debited amount back.
	if err := accounts.Credit(ctx, p.DestAccountID, p.Amount); err != nil {
		if rbErr := accounts.Credit(ctx, p.SourceAccountID, p.Amount); rbErr != nil {
			return recorded, b.reconciliationRequired(p, err, rbErr)
		}
		return recorded, fmt.Errorf("credit destination account %d: %w", p.DestAccountID, err)
	}

	// Step 3: resolve the completed state, falling back to the well-known
	// default id when the lookup itself is unavailable (degraded mode, the
	// transfer still goes through).
	stateID, err := b.storage.Transactions().GetStateIDByName(ctx, models.StateCompleted)
	if err != nil {
		b.logger.Warn("state lookup unavailable, using default state id",
			"state", models.StateCompleted, "default_id", models.DefaultCompletedStateID, "error", err)
		stateID = models.DefaultCompletedStateID
	}

	// Step 4: record the ledger row. On failure undo both balance mutations.
	recorded, err = b.storage.Transactions().Create(ctx, models.Transaction{
		Type:              models.TransactionTypeTransfer,
		Amount:            p.Amount,
		SourceCardID:      p.SourceCardID,
		DestCardID:        p.DestCardID,
		Description:       p.Description,
		StateID:           stateID,
		IdempotencyKey:    p.IdempotencyKey,
		AuthorizationCode: p.AuthCode,
	})
	if err != nil {
		rbErr := errors.Join(
			accounts.Debit(ctx, p.DestAccountID, p.Amount),
			accounts.Credit(ctx, p.SourceAccountID, p.Amount),
		)
		if rbErr != nil {
			return recorded, b.reconciliationRequired(p, err, rbErr)
		}
		return recorded, fmt.Errorf("record ledger entry: %w", err)
	}

	return recorded, nil
}

// reconciliationRequired surfaces a failed rollback to the operator channel
// and tags the error so callers can tell it apart from an ordinary store
// failure.
func (b *CompensatingBackend) reconciliationRequired(p repository.TransferParams, cause, rbErr error) error {
	b.logger.Error("compensating write failed, manual reconciliation required",
		"source_account", p.SourceAccountID,
		"dest_account", p.DestAccountID,
		"amount", p.Amount.String(),
		"cause", cause,
		"rollback_error", rbErr,
	)

	return fmt.Errorf("transfer failed (%v) and rollback failed (%v): %w",
		cause, rbErr, apperrors.ErrReconciliationRequired)
}
