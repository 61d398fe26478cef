// Package transfer implements the card-to-card transfer processor: request
// validation, card/account/client resolution, authorization checks, the
// balance mutation (through a pluggable backend) and receipt shaping.
package transfer

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bancarata/bankportal/internal/apperrors"
	"github.com/bancarata/bankportal/internal/logger"
	"github.com/bancarata/bankportal/internal/models"
	"github.com/bancarata/bankportal/internal/repository"
)

// Request is a transfer order as presented by the cardholder
type Request struct {
	SourceCardNumber string
	DestCardNumber   string
	HolderName       string
	ExpiryMonth      int
	ExpiryYear       int
	CVV              string
	Amount           decimal.Decimal
	IdempotencyKey   string
}

// Backend applies the balance mutation and records the ledger row. Exactly
// one of the two implementations runs per deployment:
//   - CompensatingBackend: sequential writes with manual compensation
//   - AtomicBackend: single transactional stored procedure
type Backend interface {
	Apply(ctx context.Context, p repository.TransferParams) (models.Transaction, error)
}

type Service struct {
	storage repository.Storage
	backend Backend
	logger  logger.Logger
}

func NewService(storage repository.Storage, backend Backend, l logger.Logger) *Service {
	if l == nil {
		l = logger.NewNoOp()
	}

	return &Service{
		storage: storage,
		backend: backend,
		logger:  l,
	}
}

// Process runs a transfer end to end and returns the receipt.
// Balances are never cached: every invocation re-reads current state.
func (s *Service) Process(ctx context.Context, req Request) (Receipt, error) {
	var receipt Receipt

	if err := validate(req); err != nil {
		return receipt, err
	}

	// A replayed idempotency key returns the recorded receipt instead of
	// moving money twice
	if req.IdempotencyKey != "" {
		prev, found, err := s.storage.Transactions().GetByIdempotencyKey(ctx, req.IdempotencyKey)
		if err != nil {
			return receipt, fmt.Errorf("idempotency lookup: %w", err)
		}
		if found {
			s.logger.Info("replaying transfer receipt", "idempotency_key", req.IdempotencyKey, "transaction_id", prev.ID)
			return buildReceipt(prev, req.DestCardNumber), nil
		}
	}

	sourceCard, err := s.storage.Cards().GetByNumber(ctx, req.SourceCardNumber)
	if err != nil {
		return receipt, fmt.Errorf("source card: %w", err)
	}

	destCard, err := s.storage.Cards().GetByNumber(ctx, req.DestCardNumber)
	if err != nil {
		return receipt, fmt.Errorf("destination card: %w", err)
	}

	if strings.TrimSpace(req.CVV) != strings.TrimSpace(sourceCard.CVV) {
		return receipt, fmt.Errorf("cvv mismatch: %w", apperrors.ErrUnauthorized)
	}

	if req.ExpiryMonth != sourceCard.ExpiryMonth || req.ExpiryYear != sourceCard.ExpiryYear {
		return receipt, fmt.Errorf("expiry mismatch: %w", apperrors.ErrUnauthorized)
	}

	sourceAccount, err := s.storage.Accounts().GetByID(ctx, sourceCard.AccountID)
	if err != nil {
		return receipt, fmt.Errorf("source account: %w", err)
	}

	destAccount, err := s.storage.Accounts().GetByID(ctx, destCard.AccountID)
	if err != nil {
		return receipt, fmt.Errorf("destination account: %w", err)
	}

	client, err := s.storage.Clients().GetByID(ctx, sourceAccount.ClientID)
	if err != nil {
		return receipt, fmt.Errorf("holder: %w", err)
	}

	// Binds the presented name to the actual account holder, no matter which
	// card number was used
	if normalizeName(req.HolderName) != normalizeName(client.FullName) {
		return receipt, fmt.Errorf("holder name mismatch: %w", apperrors.ErrUnauthorized)
	}

	if sourceAccount.Balance.LessThan(req.Amount) {
		return receipt, apperrors.ErrInsufficientFunds
	}

	params := repository.TransferParams{
		SourceAccountID: sourceAccount.ID,
		DestAccountID:   destAccount.ID,
		SourceCardID:    sourceCard.ID,
		DestCardID:      destCard.ID,
		Amount:          req.Amount,
		Description:     models.TransactionTypeTransfer,
		AuthCode:        newAuthCode(),
	}
	if req.IdempotencyKey != "" {
		params.IdempotencyKey = &req.IdempotencyKey
	}

	recorded, err := s.backend.Apply(ctx, params)
	if err != nil {
		return receipt, err
	}

	s.logger.Info("transfer completed",
		"transaction_id", recorded.ID,
		"source_account", sourceAccount.ID,
		"dest_account", destAccount.ID,
		"amount", req.Amount.String(),
	)

	return buildReceipt(recorded, req.DestCardNumber), nil
}

func validate(req Request) error {
	switch {
	case req.SourceCardNumber == "" || req.DestCardNumber == "":
		return fmt.Errorf("source and destination card numbers are required: %w", apperrors.ErrInvalidRequest)
	case req.SourceCardNumber == req.DestCardNumber:
		return fmt.Errorf("source and destination card must differ: %w", apperrors.ErrInvalidRequest)
	case req.HolderName == "":
		return fmt.Errorf("holder name is required: %w", apperrors.ErrInvalidRequest)
	case req.ExpiryMonth < 1 || req.ExpiryMonth > 12:
		return fmt.Errorf("expiry month must be between 1 and 12: %w", apperrors.ErrInvalidRequest)
	case req.ExpiryYear <= 0:
		return fmt.Errorf("expiry year is required: %w", apperrors.ErrInvalidRequest)
	case req.CVV == "":
		return fmt.Errorf("cvv is required: %w", apperrors.ErrInvalidRequest)
	case req.Amount.LessThanOrEqual(decimal.Zero):
		return fmt.Errorf("amount must be greater than zero: %w", apperrors.ErrInvalidRequest)
	}

	return nil
}

// normalizeName trims, collapses inner whitespace and lowercases
func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
