package handlers

import (
	"context"
	"net/http"

	"github.com/bancarata/bankportal/internal/handlers/render"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// handleDBHealth reports relational store connectivity
func handleDBHealth(db pinger) http.Handler {
	type response struct {
		Connected bool   `json:"conectado"`
		Error     string `json:"error,omitempty"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := db.Ping(r.Context())
		if err != nil {
			render.JSONWithStatus(w, response{Connected: false, Error: err.Error()}, http.StatusServiceUnavailable)
			return
		}

		render.JSON(w, response{Connected: true})
	})
}
