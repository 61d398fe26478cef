package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bancarata/bankportal/internal/apperrors"
	"github.com/bancarata/bankportal/internal/models"
	"github.com/bancarata/bankportal/internal/repository"
)

type TransactionRepo struct {
	DB DBTX
}

const getStateIDByName = `-- name: GetStateIDByName
SELECT id FROM transaction_states
WHERE name = $1
`

func (r *TransactionRepo) GetStateIDByName(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.DB.QueryRow(ctx, getStateIDByName, name).Scan(&id)

	switch {
	case err == nil:
		return id, nil
	case errors.Is(err, pgx.ErrNoRows):
		return 0, apperrors.ErrStateNotFound
	default:
		return 0, fmt.Errorf("db error: %w", err)
	}
}

const createTransaction = `-- name: CreateTransaction
INSERT INTO transactions (type, amount, source_card_id, dest_card_id, description, state_id, idempotency_key, authorization_code)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, type, amount, source_card_id, dest_card_id, description, state_id, idempotency_key, authorization_code, created_at
`

func (r *TransactionRepo) Create(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	rows, _ := r.DB.Query(ctx, createTransaction,
		t.Type, t.Amount, t.SourceCardID, t.DestCardID, t.Description, t.StateID, t.IdempotencyKey, t.AuthorizationCode)
	created, err := pgx.CollectOneRow(rows, rowToTransaction)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

const getByIdempotencyKey = `-- name: GetByIdempotencyKey
SELECT id, type, amount, source_card_id, dest_card_id, description, state_id, idempotency_key, authorization_code, created_at
FROM transactions
WHERE idempotency_key = $1
`

func (r *TransactionRepo) GetByIdempotencyKey(ctx context.Context, key string) (models.Transaction, bool, error) {
	rows, _ := r.DB.Query(ctx, getByIdempotencyKey, key)
	t, err := pgx.CollectOneRow(rows, rowToTransaction)

	switch {
	case err == nil:
		return t, true, nil
	case errors.Is(err, pgx.ErrNoRows):
		return t, false, nil
	default:
		return t, false, fmt.Errorf("db error: %w", err)
	}
}

const callTransferFunds = `-- name: TransferFunds
SELECT transaction_id, created_at
FROM transfer_funds($1, $2, $3, $4, $5, $6, $7, $8)
`

func (r *TransactionRepo) TransferFunds(ctx context.Context, p repository.TransferParams) (int64, time.Time, error) {
	var txID int64
	var createdAt time.Time

	err := r.DB.QueryRow(ctx, callTransferFunds,
		p.SourceAccountID, p.DestAccountID, p.SourceCardID, p.DestCardID,
		p.Amount, p.Description, p.IdempotencyKey, p.AuthCode,
	).Scan(&txID, &createdAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.CheckViolation:
				return 0, createdAt, apperrors.ErrInsufficientFunds
			case pgerrcode.NoDataFound:
				return 0, createdAt, apperrors.ErrAccountNotFound
			}
		}
		return 0, createdAt, fmt.Errorf("db error: %w", err)
	}

	return txID, createdAt, nil
}

const listRecentTransactions = `-- name: ListRecentTransactions
SELECT t.id, t.type, t.amount, t.source_card_id, t.dest_card_id, t.description,
       t.state_id, s.name, t.idempotency_key, t.authorization_code, t.created_at
FROM transactions t
JOIN transaction_states s ON s.id = t.state_id
ORDER BY t.created_at DESC, t.id DESC
LIMIT $1
`

func (r *TransactionRepo) ListRecent(ctx context.Context, limit int) ([]models.Transaction, error) {
	rows, _ := r.DB.Query(ctx, listRecentTransactions, limit)
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Transaction, error) {
		var t models.Transaction
		err := row.Scan(&t.ID, &t.Type, &t.Amount, &t.SourceCardID, &t.DestCardID,
			&t.Description, &t.StateID, &t.StateName, &t.IdempotencyKey, &t.AuthorizationCode, &t.CreatedAt)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return list, nil
}

func rowToTransaction(row pgx.CollectableRow) (models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(&t.ID, &t.Type, &t.Amount, &t.SourceCardID, &t.DestCardID,
		&t.Description, &t.StateID, &t.IdempotencyKey, &t.AuthorizationCode, &t.CreatedAt)
	return t, err
}
