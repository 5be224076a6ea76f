package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"nexus-storefront/internal/config"
	"nexus-storefront/internal/model"
	"nexus-storefront/internal/session"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// Client talks to the storefront REST API. It attaches the session's
// bearer token and a correlation id to every request, runs round-trips
// through a circuit breaker, and maps responses onto the error
// taxonomy: 401 invalidates the session, other non-2xx surface the
// server's message, transport failures come back as transient.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Session
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	logger     zerolog.Logger
}

// NewClient creates an API client for the given endpoint and session.
func NewClient(cfg config.APIConfig, sess *session.Session, logger zerolog.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:    "storefront-api",
		Timeout: cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(cfg.BreakerFailures)
		},
	})

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		session:    sess,
		breaker:    breaker,
		logger:     logger.With().Str("component", "api").Logger(),
	}
}

// wireError is the error body the server sends with non-2xx responses.
type wireError struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId"`
}

// do performs one API exchange. body and out may be nil; an empty 2xx
// body with a non-nil out leaves out untouched (the clear-cart endpoint
// answers 200 with no payload).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	correlationID := uuid.New().String()

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Correlation-ID", correlationID)
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		return c.httpClient.Do(req)
	})
	if err != nil {
		c.logger.Warn().
			Str("method", method).
			Str("path", path).
			Str("correlation_id", correlationID).
			Err(err).
			Msg("request failed")
		return &model.APIError{
			Code:          model.ErrCodeTransient,
			Message:       transportMessage(err),
			CorrelationID: correlationID,
		}
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Str("correlation_id", correlationID).
		Msg("api request")

	if resp.StatusCode == http.StatusUnauthorized {
		c.session.Invalidate()
		return &model.APIError{
			StatusCode:    http.StatusUnauthorized,
			Code:          model.ErrCodeUnauthorised,
			Message:       "your session has expired",
			CorrelationID: correlationID,
		}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.decodeError(resp, correlationID)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError turns a non-2xx response into an APIError carrying the
// server's message when one was sent.
func (c *Client) decodeError(resp *http.Response, correlationID string) error {
	var wire wireError
	_ = json.NewDecoder(resp.Body).Decode(&wire)

	code := wire.Error
	if code == "" {
		if resp.StatusCode >= http.StatusInternalServerError {
			code = model.ErrCodeInternalError
		} else {
			code = model.ErrCodeBusinessRule
		}
	}
	if wire.CorrelationID != "" {
		correlationID = wire.CorrelationID
	}

	return &model.APIError{
		StatusCode:    resp.StatusCode,
		Code:          code,
		Message:       wire.Message,
		CorrelationID: correlationID,
	}
}

func transportMessage(err error) string {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "the store is temporarily unavailable"
	}
	return ""
}
