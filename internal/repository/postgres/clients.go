package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bancarata/bankportal/internal/apperrors"
	"github.com/bancarata/bankportal/internal/models"
)

type ClientRepo struct {
	DB DBTX
}

const getClientByID = `-- name: GetClientByID
SELECT id, full_name FROM clients
WHERE id = $1
`

func (r *ClientRepo) GetByID(ctx context.Context, id int64) (models.Client, error) {
	rows, _ := r.DB.Query(ctx, getClientByID, id)
	client, err := pgx.CollectOneRow(rows, func(row pgx.CollectableRow) (models.Client, error) {
		var c models.Client
		err := row.Scan(&c.ID, &c.FullName)
		return c, err
	})

	switch {
	case err == nil:
		return client, nil
	case errors.Is(err, pgx.ErrNoRows):
		return client, apperrors.ErrClientNotFound
	default:
		return client, fmt.Errorf("db error: %w", err)
	}
}
