package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/bancarata/bankportal/internal/apperrors"
	"github.com/bancarata/bankportal/internal/handlers/render"
	"github.com/bancarata/bankportal/internal/logger"
	"github.com/bancarata/bankportal/internal/models"
)

type subscriptionStore interface {
	Subscribe(ctx context.Context, email string) (models.Subscription, error)
	IsSubscribed(ctx context.Context, email string) (bool, error)
}

func handleSubscribe(subs subscriptionStore, l logger.Logger) http.Handler {
	type request struct {
		Email string `json:"email" validate:"required,email"`
	}
	type response struct {
		Success bool   `json:"success"`
		Email   string `json:"email"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		sub, err := subs.Subscribe(r.Context(), data.Email)

		switch {
		case err == nil:
			render.JSONWithStatus(w, response{Success: true, Email: sub.Email}, http.StatusCreated)
		case errors.Is(err, apperrors.ErrAlreadySubscribed):
			render.ServiceError(w, "Este correo ya está suscrito", http.StatusConflict)
		default:
			l.Error("failed to subscribe", "error", err)
			render.ServiceError(w, "Error al procesar la suscripción", http.StatusInternalServerError)
		}
	})
}

func handleCheckEmail(subs subscriptionStore, l logger.Logger) http.Handler {
	type request struct {
		Email string `json:"email" validate:"required,email"`
	}
	type response struct {
		IsAlreadySubscribed bool `json:"isAlreadySubscribed"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		subscribed, err := subs.IsSubscribed(r.Context(), data.Email)
		if err != nil {
			l.Error("failed to check email", "error", err)
			render.ServiceError(w, "Error checking email", http.StatusInternalServerError)
			return
		}

		render.JSON(w, response{IsAlreadySubscribed: subscribed})
	})
}
