package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bancarata/bankportal/internal/handlers/middleware"
	"github.com/bancarata/bankportal/internal/logger"
	"github.com/bancarata/bankportal/internal/service/adminauth"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

// RouterConfig carries everything the HTTP surface depends on. BankAPI may be
// nil: transfer processing and the admin listing are then served locally.
type RouterConfig struct {
	Transfers     transferService
	Ledger        transactionLister
	Auth          *adminauth.Service
	Subscriptions subscriptionStore
	Requests      accountRequestStore
	BankAPI       bankAPIClient
	DB            pinger
	Logger        logger.Logger
}

func NewRouter(c RouterConfig) http.Handler {
	authMiddleware := middleware.AuthMiddleware(c.Auth)
	withAuth := func(h http.Handler) http.Handler {
		return authMiddleware(h)
	}

	// The process endpoint forwards to the remote banking API when one is
	// configured; the bank endpoint always serves the local processor
	processTransfer := handleProcessTransfer(c.Transfers, c.Logger)
	forwardTransfer := processTransfer
	if c.BankAPI != nil {
		forwardTransfer = handleForwardTransfer(c.BankAPI, c.Logger)
	}

	api := http.NewServeMux()

	api.Handle("POST /bank", processTransfer)
	api.Handle("POST /transactions/process", forwardTransfer)

	api.Handle("POST /auth/login", handleLogin(c.Auth, c.Logger))
	api.Handle("GET /admin/transactions", withAuth(handleAdminTransactions(c.Ledger, c.BankAPI, c.Logger)))

	api.Handle("POST /newsletter/subscribe", handleSubscribe(c.Subscriptions, c.Logger))
	api.Handle("POST /newsletter/check-email", handleCheckEmail(c.Subscriptions, c.Logger))

	api.Handle("POST /accounts/submit", handleSubmitAccountRequest(c.Requests, c.Logger))
	api.Handle("POST /accounts/check-requests", handleCheckPendingRequest(c.Requests, c.Logger))
	api.Handle("PUT /accounts/check-requests", handleFileAccountRequest(c.Requests, c.Logger))

	api.Handle("GET /health/db", handleDBHealth(c.DB))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))
	root.Handle("GET /metrics", promhttp.Handler())

	handler := chain(root,
		middleware.LoggerMiddleware(c.Logger),
		middleware.MetricsMiddleware(),
	)

	return handler
}
