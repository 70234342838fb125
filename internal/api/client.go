package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmcdole/shelf/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Shelf/1.0"
)

// Client implements the auth, profile, catalog, borrowing-list and
// transaction repositories against the library backend's JSON API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	tokenMu sync.RWMutex
	tokens  domain.TokenSource
}

// NewClient creates a new backend API client
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// SetTokenSource sets where bearer tokens come from for authenticated calls
func (c *Client) SetTokenSource(ts domain.TokenSource) {
	c.tokenMu.Lock()
	c.tokens = ts
	c.tokenMu.Unlock()
}

func (c *Client) bearer() string {
	c.tokenMu.RLock()
	defer c.tokenMu.RUnlock()
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}

// doRequest performs an HTTP request with an optional JSON body.
// Non-2xx responses come back as *domain.APIError.
func (c *Client) doRequest(ctx context.Context, method, path string, payload any, authenticated bool) ([]byte, error) {
	reqURL := c.baseURL + path

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		token := c.bearer()
		if token == "" {
			return nil, domain.ErrUnauthenticated
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("api request", "method", method, "url", reqURL, "requestID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		c.logger.Error("api request failed", "error", err, "requestID", requestID)
		return nil, domain.ErrServerOffline
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &domain.APIError{Status: resp.StatusCode, Message: errorMessage(respBody)}
		c.logger.Warn("api request error",
			"status", resp.StatusCode, "path", path, "message", apiErr.Message, "requestID", requestID)
		return nil, apiErr
	}

	return respBody, nil
}

// decode unmarshals a JSON response body
func (c *Client) decode(body []byte, dest any) error {
	if err := json.Unmarshal(body, dest); err != nil {
		c.logger.Error("JSON parse error", "error", err, "bodyLen", len(body))
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// errorMessage extracts {"message": ...} or {"error": ...} from an error body
func errorMessage(body []byte) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err == nil {
		if e.Message != "" {
			return e.Message
		}
		if e.Error != "" {
			return e.Error
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
