package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bancarata/bankportal/internal/apperrors"
	"github.com/bancarata/bankportal/internal/logger"
	"github.com/bancarata/bankportal/internal/models"
	"github.com/bancarata/bankportal/internal/repository/memdocs"
	"github.com/bancarata/bankportal/internal/service/adminauth"
	"github.com/bancarata/bankportal/internal/service/transfer"
)

type fakeTransferService struct {
	receipt transfer.Receipt
	err     error
	got     transfer.Request
	calls   int
}

func (f *fakeTransferService) Process(_ context.Context, req transfer.Request) (transfer.Receipt, error) {
	f.got = req
	f.calls++
	return f.receipt, f.err
}

type fakeLedger struct {
	transactions []models.Transaction
	err          error
}

func (f *fakeLedger) ListRecent(_ context.Context, limit int) ([]models.Transaction, error) {
	return f.transactions, f.err
}

type fakePinger struct{ err error }

func (f *fakePinger) Ping(context.Context) error { return f.err }

type fakeBankAPI struct {
	status int
	body   []byte
	err    error

	gotBody   []byte
	gotBearer string
}

func (f *fakeBankAPI) ProcessTransfer(_ context.Context, body []byte) (int, []byte, error) {
	f.gotBody = body
	return f.status, f.body, f.err
}

func (f *fakeBankAPI) ListTransactions(_ context.Context, bearer string) (int, []byte, error) {
	f.gotBearer = bearer
	return f.status, f.body, f.err
}

// newTestServer wires the router the way cmd/bankportal does, with fakes for
// the relational side and the real in-memory document store
func newTestServer(t *testing.T, mutate func(c *RouterConfig)) *httptest.Server {
	t.Helper()

	auth, err := adminauth.New(adminauth.Config{SecretKey: "test-secret"})
	require.NoError(t, err, "auth service should be created without errors")

	docs := memdocs.NewStore()
	c := RouterConfig{
		Transfers:     &fakeTransferService{},
		Ledger:        &fakeLedger{},
		Auth:          auth,
		Subscriptions: docs.Subscriptions(),
		Requests:      docs.AccountRequests(),
		DB:            &fakePinger{},
		Logger:        logger.NewNoOp(),
	}
	if mutate != nil {
		mutate(&c)
	}

	srv := httptest.NewServer(NewRouter(c))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body string) (*http.Response, string) {
	t.Helper()

	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	return resp, string(raw)
}

const validTransferBody = `{
	"NumeroTarjetaOrigen": "4111111111111111",
	"NumeroTarjetaDestino": "4222222222222222",
	"NombreCliente": "Juan Pérez",
	"MesExp": 12,
	"AnioExp": 2028,
	"Cvv": "123",
	"Monto": 150.50,
	"IdempotenciaId": "req-42"
}`

func Test_TransferHandler(t *testing.T) {
	t.Parallel()

	t.Run("process ok", func(t *testing.T) {
		svc := &fakeTransferService{receipt: transfer.Receipt{
			CreatedUTC:        "2025-03-14T21:09:26Z",
			TransactionID:     "TRX-000001",
			Type:              "TRANSFERENCIA",
			Amount:            150.50,
			CardBrand:         "VISA",
			MaskedCardNumber:  "**** **** **** 2222",
			AuthorizationCode: "AUTH-654321",
			StateName:         "COMPLETADA",
			SignatureMethod:   "PIN",
			Message:           "Pago aprobado",
		}}
		srv := newTestServer(t, func(c *RouterConfig) { c.Transfers = svc })

		resp, body := postJSON(t, srv.URL+"/api/bank", validTransferBody)

		require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)
		require.JSONEq(t, `
			{
				"CreadaUTC": "2025-03-14T21:09:26Z",
				"IdTransaccion": "TRX-000001",
				"TipoTransaccion": "TRANSFERENCIA",
				"MontoTransaccion": 150.50,
				"MarcaTarjeta": "VISA",
				"NumeroTarjeta": "**** **** **** 2222",
				"NumeroAutorizacion": "AUTH-654321",
				"NombreEstado": "COMPLETADA",
				"Firma": "PIN",
				"Mensaje": "Pago aprobado"
			}`, body)

		require.Equal(t, "4111111111111111", svc.got.SourceCardNumber)
		require.Equal(t, "req-42", svc.got.IdempotencyKey)
		require.True(t, svc.got.Amount.Equal(decimal.NewFromFloat(150.50)), "amount should reach the service unchanged")
	})

	t.Run("missing fields rejected before service", func(t *testing.T) {
		svc := &fakeTransferService{}
		srv := newTestServer(t, func(c *RouterConfig) { c.Transfers = svc })

		resp, body := postJSON(t, srv.URL+"/api/bank", `{"NumeroTarjetaOrigen": "4111111111111111"}`)

		require.Equalf(t, http.StatusBadRequest, resp.StatusCode, "not expected code. Body: %s", body)
		require.Contains(t, body, "validation_failed")
		require.Zero(t, svc.calls, "service should not be called on validation failure")
	})

	t.Run("non numeric card rejected", func(t *testing.T) {
		srv := newTestServer(t, nil)

		body := strings.Replace(validTransferBody, "4111111111111111", "not-a-card-number", 1)
		resp, respBody := postJSON(t, srv.URL+"/api/bank", body)

		require.Equalf(t, http.StatusBadRequest, resp.StatusCode, "not expected code. Body: %s", respBody)
		require.Contains(t, respBody, "NumeroTarjetaOrigen")
	})

	t.Run("service errors map to statuses", func(t *testing.T) {
		cases := []struct {
			name       string
			err        error
			wantStatus int
			wantBody   string
		}{
			{"invalid request", fmt.Errorf("same card: %w", apperrors.ErrInvalidRequest), http.StatusBadRequest, `{"error": "service_error", "Mensaje": "Solicitud de transferencia inválida"}`},
			{"insufficient funds", apperrors.ErrInsufficientFunds, http.StatusBadRequest, `{"error": "service_error", "Mensaje": "Fondos insuficientes"}`},
			{"cvv mismatch collapsed", fmt.Errorf("cvv mismatch: %w", apperrors.ErrUnauthorized), http.StatusBadRequest, `{"error": "service_error", "Mensaje": "No autorizado"}`},
			{"name mismatch collapsed", fmt.Errorf("holder name mismatch: %w", apperrors.ErrUnauthorized), http.StatusBadRequest, `{"error": "service_error", "Mensaje": "No autorizado"}`},
			{"card not found", fmt.Errorf("source card: %w", apperrors.ErrCardNotFound), http.StatusNotFound, `{"error": "service_error", "Mensaje": "Tarjeta, cuenta o cliente no encontrado"}`},
			{"client not found", fmt.Errorf("holder: %w", apperrors.ErrClientNotFound), http.StatusNotFound, `{"error": "service_error", "Mensaje": "Tarjeta, cuenta o cliente no encontrado"}`},
			{"reconciliation required", fmt.Errorf("rollback failed: %w", apperrors.ErrReconciliationRequired), http.StatusInternalServerError, `{"error": "service_error", "Mensaje": "No se pudo completar la transacción", "Detalle": "requiere conciliación manual"}`},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				srv := newTestServer(t, func(c *RouterConfig) { c.Transfers = &fakeTransferService{err: tc.err} })

				resp, body := postJSON(t, srv.URL+"/api/bank", validTransferBody)

				require.Equalf(t, tc.wantStatus, resp.StatusCode, "not expected code. Body: %s", body)
				require.JSONEq(t, tc.wantBody, body)
			})
		}
	})

	t.Run("unauthorized detail never leaks", func(t *testing.T) {
		err := fmt.Errorf("expiry mismatch: %w", apperrors.ErrUnauthorized)
		srv := newTestServer(t, func(c *RouterConfig) { c.Transfers = &fakeTransferService{err: err} })

		_, body := postJSON(t, srv.URL+"/api/bank", validTransferBody)

		require.NotContains(t, body, "expiry", "the failed check should stay out of the response")
	})

	t.Run("process endpoint served locally without banking api", func(t *testing.T) {
		svc := &fakeTransferService{receipt: transfer.Receipt{TransactionID: "TRX-000001"}}
		srv := newTestServer(t, func(c *RouterConfig) { c.Transfers = svc })

		resp, body := postJSON(t, srv.URL+"/api/transactions/process", validTransferBody)

		require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)
		require.Equal(t, 1, svc.calls)
	})

	t.Run("process endpoint forwards to banking api", func(t *testing.T) {
		api := &fakeBankAPI{status: http.StatusBadRequest, body: []byte(`{"Mensaje": "remoto"}`)}
		svc := &fakeTransferService{}
		srv := newTestServer(t, func(c *RouterConfig) {
			c.Transfers = svc
			c.BankAPI = api
		})

		resp, body := postJSON(t, srv.URL+"/api/transactions/process", validTransferBody)

		require.Equal(t, http.StatusBadRequest, resp.StatusCode, "remote status should be relayed")
		require.JSONEq(t, `{"Mensaje": "remoto"}`, body)
		require.JSONEq(t, validTransferBody, string(api.gotBody), "request body should be forwarded untouched")
		require.Zero(t, svc.calls, "local processor should not run")
	})
}

func Test_AuthHandler(t *testing.T) {
	t.Parallel()

	t.Run("login ok sets cookie", func(t *testing.T) {
		srv := newTestServer(t, nil)

		resp, body := postJSON(t, srv.URL+"/api/auth/login", `{"email": "admin@bancarata.mx", "password": "password123"}`)

		require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)
		require.Contains(t, body, `"token"`)
		require.Contains(t, body, `"email":"admin@bancarata.mx"`)
		require.Contains(t, body, `"role":"admin"`)

		require.Equal(t, 1, len(resp.Cookies()))
		cookie := resp.Cookies()[0]
		require.Equal(t, adminauth.CookieName, cookie.Name)
		require.True(t, cookie.HttpOnly, "auth cookie should be HttpOnly")
		require.Equal(t, "/", cookie.Path)
		require.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
		require.NotEmpty(t, cookie.Value)
	})

	t.Run("invalid email rejected", func(t *testing.T) {
		srv := newTestServer(t, nil)

		resp, body := postJSON(t, srv.URL+"/api/auth/login", `{"email": "not-an-email", "password": "password123"}`)

		require.Equalf(t, http.StatusBadRequest, resp.StatusCode, "not expected code. Body: %s", body)
		require.Contains(t, body, "validation_failed")
	})

	t.Run("wrong password unauthorized", func(t *testing.T) {
		hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
		require.NoError(t, err)

		auth, err := adminauth.New(adminauth.Config{
			SecretKey:         "test-secret",
			AdminPasswordHash: string(hash),
		})
		require.NoError(t, err)
		srv := newTestServer(t, func(c *RouterConfig) { c.Auth = auth })

		resp, body := postJSON(t, srv.URL+"/api/auth/login", `{"email": "admin@bancarata.mx", "password": "wrong"}`)

		require.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "not expected code. Body: %s", body)
		require.JSONEq(t, `{"error": "service_error", "Mensaje": "Credenciales inválidas"}`, body)
		require.Equal(t, 0, len(resp.Cookies()), "no cookie should be set on failed login")
	})
}

func Test_AdminTransactionsHandler(t *testing.T) {
	t.Parallel()

	login := func(t *testing.T, srv *httptest.Server) *http.Cookie {
		t.Helper()

		resp, body := postJSON(t, srv.URL+"/api/auth/login", `{"email": "admin@bancarata.mx", "password": "password123"}`)
		require.Equalf(t, http.StatusOK, resp.StatusCode, "login should succeed. Body: %s", body)
		require.Equal(t, 1, len(resp.Cookies()))
		return resp.Cookies()[0]
	}

	get := func(t *testing.T, url string, cookie *http.Cookie) (*http.Response, string) {
		t.Helper()

		req, err := http.NewRequest("GET", url, nil)
		require.NoError(t, err)
		if cookie != nil {
			req.AddCookie(cookie)
		}

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		return resp, string(raw)
	}

	t.Run("requires auth cookie", func(t *testing.T) {
		srv := newTestServer(t, nil)

		resp, body := get(t, srv.URL+"/api/admin/transactions", nil)

		require.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "not expected code. Body: %s", body)
		require.JSONEq(t, `{"error": "service_error", "Mensaje": "Unauthorized"}`, body)
	})

	t.Run("rejects forged cookie", func(t *testing.T) {
		srv := newTestServer(t, nil)

		resp, _ := get(t, srv.URL+"/api/admin/transactions", &http.Cookie{Name: adminauth.CookieName, Value: "forged"})

		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("lists local ledger", func(t *testing.T) {
		ledger := &fakeLedger{transactions: []models.Transaction{{
			ID:                7,
			Type:              "TRANSFERENCIA",
			Amount:            decimal.NewFromFloat(150.50),
			StateName:         "COMPLETADA",
			AuthorizationCode: "AUTH-654321",
			CreatedAt:         time.Date(2025, 3, 14, 21, 9, 26, 0, time.UTC),
		}}}
		srv := newTestServer(t, func(c *RouterConfig) { c.Ledger = ledger })
		cookie := login(t, srv)

		resp, body := get(t, srv.URL+"/api/admin/transactions", cookie)

		require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)
		require.JSONEq(t, `
			[{
				"IdTransaccion": "TRX-000007",
				"TipoTransaccion": "TRANSFERENCIA",
				"MontoTransaccion": 150.50,
				"NombreEstado": "COMPLETADA",
				"NumeroAutorizacion": "AUTH-654321",
				"Descripcion": "",
				"CreadaUTC": "2025-03-14T21:09:26Z"
			}]`, body)
	})

	t.Run("proxies to banking api with bearer", func(t *testing.T) {
		api := &fakeBankAPI{status: http.StatusOK, body: []byte(`[]`)}
		srv := newTestServer(t, func(c *RouterConfig) { c.BankAPI = api })
		cookie := login(t, srv)

		resp, body := get(t, srv.URL+"/api/admin/transactions", cookie)

		require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)
		require.JSONEq(t, `[]`, body)
		require.Equal(t, cookie.Value, api.gotBearer, "caller token should be passed as bearer")
	})
}

func Test_NewsletterHandlers(t *testing.T) {
	t.Parallel()

	t.Run("subscribe ok", func(t *testing.T) {
		srv := newTestServer(t, nil)

		resp, body := postJSON(t, srv.URL+"/api/newsletter/subscribe", `{"email": "reader@example.com"}`)

		require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", body)
		require.JSONEq(t, `{"success": true, "email": "reader@example.com"}`, body)
	})

	t.Run("duplicate subscribe conflicts", func(t *testing.T) {
		srv := newTestServer(t, nil)

		_, _ = postJSON(t, srv.URL+"/api/newsletter/subscribe", `{"email": "reader@example.com"}`)
		resp, body := postJSON(t, srv.URL+"/api/newsletter/subscribe", `{"email": "reader@example.com"}`)

		require.Equalf(t, http.StatusConflict, resp.StatusCode, "not expected code. Body: %s", body)
		require.JSONEq(t, `{"error": "service_error", "Mensaje": "Este correo ya está suscrito"}`, body)
	})

	t.Run("check email", func(t *testing.T) {
		srv := newTestServer(t, nil)

		resp, body := postJSON(t, srv.URL+"/api/newsletter/check-email", `{"email": "reader@example.com"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.JSONEq(t, `{"isAlreadySubscribed": false}`, body)

		_, _ = postJSON(t, srv.URL+"/api/newsletter/subscribe", `{"email": "reader@example.com"}`)

		resp, body = postJSON(t, srv.URL+"/api/newsletter/check-email", `{"email": "reader@example.com"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.JSONEq(t, `{"isAlreadySubscribed": true}`, body)
	})
}

func Test_AccountRequestHandlers(t *testing.T) {
	t.Parallel()

	t.Run("submit ok", func(t *testing.T) {
		srv := newTestServer(t, nil)

		resp, body := postJSON(t, srv.URL+"/api/accounts/submit",
			`{"nombreCompleto": "Juan Pérez", "numeroINE": "INE1234567890", "email": "juan@example.com", "telefono": "5512345678"}`)

		require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", body)
		require.Contains(t, body, `"success":true`)
		require.Contains(t, body, `"id"`)
	})

	t.Run("check pending after submit", func(t *testing.T) {
		srv := newTestServer(t, nil)

		resp, body := postJSON(t, srv.URL+"/api/accounts/check-requests", `{"numeroINE": "INE1234567890"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.JSONEq(t, `{"hasPendingRequest": false}`, body)

		_, _ = postJSON(t, srv.URL+"/api/accounts/submit",
			`{"nombreCompleto": "Juan Pérez", "numeroINE": "INE1234567890"}`)

		resp, body = postJSON(t, srv.URL+"/api/accounts/check-requests", `{"numeroINE": "INE1234567890"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.JSONEq(t, `{"hasPendingRequest": true}`, body)
	})

	t.Run("file request via put", func(t *testing.T) {
		srv := newTestServer(t, nil)

		payload := `{"numeroINE": "INE1234567890", "formData": {"nombreCompleto": "Juan Pérez", "numeroINE": "INE1234567890"}}`
		req, err := http.NewRequest("PUT", srv.URL+"/api/accounts/check-requests", strings.NewReader(payload))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", raw)
		require.Contains(t, string(raw), `"requestId"`)
	})
}

func Test_HealthHandler(t *testing.T) {
	t.Parallel()

	get := func(t *testing.T, url string) (*http.Response, string) {
		t.Helper()

		resp, err := http.Get(url)
		require.NoError(t, err)
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		return resp, string(raw)
	}

	t.Run("db reachable", func(t *testing.T) {
		srv := newTestServer(t, nil)

		resp, body := get(t, srv.URL+"/api/health/db")

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.JSONEq(t, `{"conectado": true}`, body)
	})

	t.Run("db unreachable", func(t *testing.T) {
		srv := newTestServer(t, func(c *RouterConfig) { c.DB = &fakePinger{err: errors.New("connection refused")} })

		resp, body := get(t, srv.URL+"/api/health/db")

		require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		require.JSONEq(t, `{"conectado": false, "error": "connection refused"}`, body)
	})
}
