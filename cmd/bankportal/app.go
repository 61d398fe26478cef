package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bancarata/bankportal/internal/db"
	"github.com/bancarata/bankportal/internal/handlers"
	"github.com/bancarata/bankportal/internal/logger"
	"github.com/bancarata/bankportal/internal/repository"
	"github.com/bancarata/bankportal/internal/repository/memdocs"
	"github.com/bancarata/bankportal/internal/repository/mongodb"
	"github.com/bancarata/bankportal/internal/repository/postgres"
	"github.com/bancarata/bankportal/internal/service/adminauth"
	"github.com/bancarata/bankportal/internal/service/bankapi"
	"github.com/bancarata/bankportal/internal/service/transfer"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler
	Logger     logger.Logger

	cleanup []func(context.Context)
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	app := &ServerApp{ListenAddr: c.ListenAddr}

	// Initialize logger
	l, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}
	app.Logger = l

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}
	app.cleanup = append(app.cleanup, func(context.Context) { pool.Close() })

	storage := postgres.NewStorage(pool)

	// Document store: mongo when configured, in-memory otherwise
	var subscriptions repository.SubscriptionRepo
	var requests repository.AccountRequestRepo
	if c.MongoURI != "" {
		docs, err := mongodb.Connect(ctx, c.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("error while connecting to document store. Err: %w", err)
		}
		app.cleanup = append(app.cleanup, func(ctx context.Context) { _ = docs.Close(ctx) })

		subscriptions = docs.Subscriptions()
		requests = docs.AccountRequests()
	} else {
		l.Warn("no document store configured, subscriptions and account requests are kept in memory")
		mem := memdocs.NewStore()
		subscriptions = mem.Subscriptions()
		requests = mem.AccountRequests()
	}

	// Initialize services
	backend, err := transfer.NewBackend(c.TransferBackend, storage, l)
	if err != nil {
		return nil, err
	}
	transferService := transfer.NewService(storage, backend, l)

	authService, err := adminauth.New(adminauth.Config{
		SecretKey:         c.SecretKey,
		AdminPasswordHash: c.AdminPasswordHash,
	})
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}

	var apiClient *bankapi.Client
	if c.BankingAPIURL != "" {
		apiClient = bankapi.NewClient(c.BankingAPIURL, l)
	}

	routerConfig := handlers.RouterConfig{
		Transfers:     transferService,
		Ledger:        storage.Transactions(),
		Auth:          authService,
		Subscriptions: subscriptions,
		Requests:      requests,
		DB:            pool,
		Logger:        l,
	}
	if apiClient != nil {
		routerConfig.BankAPI = apiClient
	}

	app.Handler = handlers.NewRouter(routerConfig)

	return app, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			s.Logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}

		for _, fn := range s.cleanup {
			fn(timeoutCtx)
		}

		s.Logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully
	s.Logger.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
