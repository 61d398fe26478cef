package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bancarata/bankportal/internal/apperrors"
	"github.com/bancarata/bankportal/internal/models"
)

type CardRepo struct {
	DB DBTX
}

const getCardByNumber = `-- name: GetCardByNumber
SELECT id, account_id, number, expiry_month, expiry_year, cvv FROM cards
WHERE number = $1
`

func (r *CardRepo) GetByNumber(ctx context.Context, number string) (models.Card, error) {
	rows, _ := r.DB.Query(ctx, getCardByNumber, number)
	card, err := pgx.CollectOneRow(rows, rowToCard)

	switch {
	case err == nil:
		return card, nil
	case errors.Is(err, pgx.ErrNoRows):
		return card, apperrors.ErrCardNotFound
	default:
		return card, fmt.Errorf("db error: %w", err)
	}
}

func rowToCard(row pgx.CollectableRow) (models.Card, error) {
	var c models.Card
	err := row.Scan(&c.ID, &c.AccountID, &c.Number, &c.ExpiryMonth, &c.ExpiryYear, &c.CVV)
	return c, err
}
