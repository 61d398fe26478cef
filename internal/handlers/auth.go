package handlers

import (
	"errors"
	"net/http"

	"github.com/bancarata/bankportal/internal/apperrors"
	"github.com/bancarata/bankportal/internal/handlers/render"
	"github.com/bancarata/bankportal/internal/logger"
)

type loginService interface {
	Login(email string, password string, role string) (string, error)
	SetTokenCookie(w http.ResponseWriter, token string)
}

func handleLogin(auth loginService, l logger.Logger) http.Handler {
	type request struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
		Role     string `json:"role"`
	}
	type user struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	type response struct {
		Token string `json:"token"`
		User  user   `json:"user"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		if data.Role == "" {
			data.Role = "admin"
		}

		token, err := auth.Login(data.Email, data.Password, data.Role)

		switch {
		case err == nil:
			auth.SetTokenCookie(w, token)
			render.JSON(w, response{Token: token, User: user{Email: data.Email, Role: data.Role}})
		case errors.Is(err, apperrors.ErrUnauthorized):
			render.ServiceError(w, "Credenciales inválidas", http.StatusUnauthorized)
		default:
			l.Error("login failed", "error", err)
			render.ServiceError(w, "Error en autenticación", http.StatusInternalServerError)
		}
	})
}
