package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bancarata/bankportal/internal/handlers/render"
	"github.com/bancarata/bankportal/internal/logger"
	"github.com/bancarata/bankportal/internal/models"
	"github.com/bancarata/bankportal/internal/service/adminauth"
)

const transactionsPageSize = 100

type transactionLister interface {
	ListRecent(ctx context.Context, limit int) ([]models.Transaction, error)
}

// handleAdminTransactions feeds the admin dashboard. With a remote banking
// API configured the listing is proxied there (passing the caller's token as
// bearer), otherwise it is served from the local ledger.
func handleAdminTransactions(ledger transactionLister, client bankAPIClient, l logger.Logger) http.Handler {
	type row struct {
		TransactionID     string    `json:"IdTransaccion"`
		Type              string    `json:"TipoTransaccion"`
		Amount            float64   `json:"MontoTransaccion"`
		StateName         string    `json:"NombreEstado"`
		AuthorizationCode string    `json:"NumeroAutorizacion"`
		Description       string    `json:"Descripcion"`
		CreatedAt         time.Time `json:"CreadaUTC"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if client != nil {
			cookie, err := r.Cookie(adminauth.CookieName)
			if err != nil {
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			status, body, err := client.ListTransactions(r.Context(), cookie.Value)
			if err != nil {
				l.Error("banking API unreachable", "error", err)
				render.ServiceError(w, "Error fetching transactions", http.StatusInternalServerError)
				return
			}

			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(status)
			_, _ = w.Write(body)
			return
		}

		transactions, err := ledger.ListRecent(r.Context(), transactionsPageSize)
		if err != nil {
			l.Error("failed to list transactions", "error", err)
			render.ServiceError(w, "Error fetching transactions", http.StatusInternalServerError)
			return
		}

		rows := make([]row, 0, len(transactions))
		for _, t := range transactions {
			amount, _ := t.Amount.Float64()
			rows = append(rows, row{
				TransactionID:     fmt.Sprintf("TRX-%06d", t.ID),
				Type:              t.Type,
				Amount:            amount,
				StateName:         t.StateName,
				AuthorizationCode: t.AuthorizationCode,
				Description:       t.Description,
				CreatedAt:         t.CreatedAt.UTC(),
			})
		}

		render.JSON(w, rows)
	})
}
