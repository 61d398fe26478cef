package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/bancarata/bankportal/internal/apperrors"
	"github.com/bancarata/bankportal/internal/models"
)

type AccountRepo struct {
	DB DBTX
}

const getAccountByID = `-- name: GetAccountByID
SELECT id, client_id, balance FROM accounts
WHERE id = $1
`

func (r *AccountRepo) GetByID(ctx context.Context, id int64) (models.Account, error) {
	rows, _ := r.DB.Query(ctx, getAccountByID, id)
	account, err := pgx.CollectOneRow(rows, rowToAccount)

	switch {
	case err == nil:
		return account, nil
	case errors.Is(err, pgx.ErrNoRows):
		return account, apperrors.ErrAccountNotFound
	default:
		return account, fmt.Errorf("db error: %w", err)
	}
}

const debitAccount = `-- name: DebitAccount
UPDATE accounts
SET balance = balance - $2
WHERE id = $1 AND balance >= $2
`

// Debit relies on the row lock the UPDATE takes: concurrent transfers against
// the same account serialize on it, and the balance >= amount guard keeps the
// committed balance non-negative.
func (r *AccountRepo) Debit(ctx context.Context, id int64, amount decimal.Decimal) error {
	tag, err := r.DB.Exec(ctx, debitAccount, id, amount)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CheckViolation {
			return apperrors.ErrInsufficientFunds
		}
		return fmt.Errorf("db error: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// Either the account vanished or the guard failed; tell them apart
		_, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return apperrors.ErrInsufficientFunds
	}

	return nil
}

const creditAccount = `-- name: CreditAccount
UPDATE accounts
SET balance = balance + $2
WHERE id = $1
`

func (r *AccountRepo) Credit(ctx context.Context, id int64, amount decimal.Decimal) error {
	tag, err := r.DB.Exec(ctx, creditAccount, id, amount)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrAccountNotFound
	}

	return nil
}

func rowToAccount(row pgx.CollectableRow) (models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.ClientID, &a.Balance)
	return a, err
}
