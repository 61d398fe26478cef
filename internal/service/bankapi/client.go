// Package bankapi is the HTTP client for the remote banking API. When a
// deployment configures BANKING_API_URL the portal forwards transfer
// processing and the admin transaction listing there instead of serving them
// from its own store.
package bankapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bancarata/bankportal/internal/logger"
)

const (
	processPath      = "/api/transacciones/procesar"
	transactionsPath = "/api/transacciones"

	requestTimeout = 10 * time.Second
)

type Client struct {
	BaseURL string

	client *http.Client
	logger logger.Logger
}

func NewClient(baseURL string, l logger.Logger) *Client {
	if l == nil {
		l = logger.NewNoOp()
	}

	return &Client{
		BaseURL: baseURL,
		client:  &http.Client{},
		logger:  l,
	}
}

// ProcessTransfer forwards the raw transfer request body and returns the
// upstream status and body untouched, so error payloads pass through.
func (c *Client) ProcessTransfer(ctx context.Context, body []byte) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+processPath, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// ListTransactions fetches the transaction feed on behalf of an admin,
// passing the caller's bearer token along.
func (c *Client) ListTransactions(ctx context.Context, bearer string) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+transactionsPath, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	return c.do(req)
}

func (c *Client) do(req *http.Request) (int, []byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		c.logger.Warn("banking API error", "status_code", resp.StatusCode, "path", req.URL.Path)
	}

	return resp.StatusCode, body, nil
}
