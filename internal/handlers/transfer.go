package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/bancarata/bankportal/internal/apperrors"
	"github.com/bancarata/bankportal/internal/handlers/render"
	"github.com/bancarata/bankportal/internal/logger"
	"github.com/bancarata/bankportal/internal/service/transfer"
)

type transferService interface {
	Process(ctx context.Context, req transfer.Request) (transfer.Receipt, error)
}

func handleProcessTransfer(svc transferService, l logger.Logger) http.Handler {
	type request struct {
		SourceCardNumber string          `json:"NumeroTarjetaOrigen" validate:"required,carddigits"`
		DestCardNumber   string          `json:"NumeroTarjetaDestino" validate:"required,carddigits"`
		HolderName       string          `json:"NombreCliente" validate:"required"`
		ExpiryMonth      int             `json:"MesExp" validate:"required"`
		ExpiryYear       int             `json:"AnioExp" validate:"required"`
		CVV              string          `json:"Cvv" validate:"required,min=3,max=4"`
		Amount           decimal.Decimal `json:"Monto"`
		IdempotencyKey   string          `json:"IdempotenciaId"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		receipt, err := svc.Process(r.Context(), transfer.Request{
			SourceCardNumber: data.SourceCardNumber,
			DestCardNumber:   data.DestCardNumber,
			HolderName:       data.HolderName,
			ExpiryMonth:      data.ExpiryMonth,
			ExpiryYear:       data.ExpiryYear,
			CVV:              data.CVV,
			Amount:           data.Amount,
			IdempotencyKey:   data.IdempotencyKey,
		})

		switch {
		case err == nil:
			render.JSON(w, receipt)
		case errors.Is(err, apperrors.ErrInvalidRequest):
			render.ServiceError(w, "Solicitud de transferencia inválida", http.StatusBadRequest)
		case errors.Is(err, apperrors.ErrInsufficientFunds):
			render.ServiceError(w, "Fondos insuficientes", http.StatusBadRequest)
		case errors.Is(err, apperrors.ErrUnauthorized):
			// One generic message for CVV, expiry and name mismatches; the
			// specific failed check stays in the log only
			l.Info("transfer authorization failed", "error", err)
			render.ServiceError(w, "No autorizado", http.StatusBadRequest)
		case errors.Is(err, apperrors.ErrCardNotFound),
			errors.Is(err, apperrors.ErrAccountNotFound),
			errors.Is(err, apperrors.ErrClientNotFound):
			render.ServiceError(w, "Tarjeta, cuenta o cliente no encontrado", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrReconciliationRequired):
			l.Error("transfer requires manual reconciliation", "error", err)
			render.ServiceErrorDetail(w, "No se pudo completar la transacción", "requiere conciliación manual", http.StatusInternalServerError)
		default:
			l.Error("transfer failed", "error", err)
			render.ServiceErrorDetail(w, "No se pudo completar la transacción", err.Error(), http.StatusInternalServerError)
		}
	})
}

type bankAPIClient interface {
	ProcessTransfer(ctx context.Context, body []byte) (int, []byte, error)
	ListTransactions(ctx context.Context, bearer string) (int, []byte, error)
}

// handleForwardTransfer forwards the raw request to the remote banking API
// and relays status and body untouched
func handleForwardTransfer(client bankAPIClient, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			render.ServiceError(w, "Error procesando transacción", http.StatusBadRequest)
			return
		}

		status, respBody, err := client.ProcessTransfer(r.Context(), body)
		if err != nil {
			l.Error("banking API unreachable", "error", err)
			render.ServiceError(w, "Error procesando transacción", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write(respBody)
	})
}
