package handlers

import (
	"context"
	"net/http"

	"github.com/bancarata/bankportal/internal/handlers/render"
	"github.com/bancarata/bankportal/internal/logger"
	"github.com/bancarata/bankportal/internal/models"
)

type accountRequestStore interface {
	Create(ctx context.Context, req models.AccountRequest) (models.AccountRequest, error)
	HasPending(ctx context.Context, ineNumber string) (bool, error)
}

type accountRequestBody struct {
	FullName  string `json:"nombreCompleto" validate:"required"`
	INENumber string `json:"numeroINE" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"telefono"`
}

func handleSubmitAccountRequest(requests accountRequestStore, l logger.Logger) http.Handler {
	type response struct {
		Success bool   `json:"success"`
		ID      string `json:"id"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[accountRequestBody](w, r)
		if err != nil {
			return
		}

		created, err := requests.Create(r.Context(), models.AccountRequest{
			FullName:  data.FullName,
			INENumber: data.INENumber,
			Email:     data.Email,
			Phone:     data.Phone,
		})
		if err != nil {
			l.Error("failed to store account request", "error", err)
			render.ServiceError(w, "Error al procesar la solicitud", http.StatusInternalServerError)
			return
		}

		render.JSONWithStatus(w, response{Success: true, ID: created.ID}, http.StatusCreated)
	})
}

func handleCheckPendingRequest(requests accountRequestStore, l logger.Logger) http.Handler {
	type request struct {
		INENumber string `json:"numeroINE" validate:"required"`
	}
	type response struct {
		HasPendingRequest bool `json:"hasPendingRequest"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		pending, err := requests.HasPending(r.Context(), data.INENumber)
		if err != nil {
			l.Error("failed to check pending requests", "error", err)
			render.ServiceError(w, "Error checking requests", http.StatusInternalServerError)
			return
		}

		render.JSON(w, response{HasPendingRequest: pending})
	})
}

func handleFileAccountRequest(requests accountRequestStore, l logger.Logger) http.Handler {
	type request struct {
		INENumber string             `json:"numeroINE" validate:"required"`
		Form      accountRequestBody `json:"formData" validate:"required"`
	}
	type response struct {
		Success   bool   `json:"success"`
		RequestID string `json:"requestId"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		created, err := requests.Create(r.Context(), models.AccountRequest{
			FullName:  data.Form.FullName,
			INENumber: data.INENumber,
			Email:     data.Form.Email,
			Phone:     data.Form.Phone,
		})
		if err != nil {
			l.Error("failed to create account request", "error", err)
			render.ServiceError(w, "Error creating request", http.StatusInternalServerError)
			return
		}

		render.JSONWithStatus(w, response{Success: true, RequestID: created.ID}, http.StatusCreated)
	})
}
