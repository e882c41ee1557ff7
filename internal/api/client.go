// Package api is the request/response wrapper around the riskdesk REST
// service. It holds no state between calls: no caching, no retries.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tOgg1/riskdesk/internal/logging"
	"github.com/tOgg1/riskdesk/internal/models"
)

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

const maxErrorBody = 64 << 10

// Config configures a Client.
type Config struct {
	// BaseURL is the API root, e.g. http://localhost:3000/api.
	BaseURL string

	// Timeout bounds a single request. Zero means no timeout.
	Timeout time.Duration

	// HTTPClient overrides the transport (tests).
	HTTPClient *http.Client
}

// Client talks to the system of record.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	timeout time.Duration
	log     zerolog.Logger
}

// NewClient validates cfg and returns a Client.
func NewClient(cfg Config) (*Client, error) {
	raw := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if raw == "" {
		return nil, errors.New("api base url required")
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("api base url must use http or https: %q", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		baseURL: base,
		http:    httpClient,
		timeout: cfg.Timeout,
		log:     logging.Component("api"),
	}, nil
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do performs one request. op names the operation for errors and logs. body,
// when non-nil, is JSON encoded; out, when non-nil, receives the decoded
// response.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out interface{}) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var payload io.Reader
	var encoded []byte
	if body != nil {
		var err error
		encoded, err = json.Marshal(body)
		if err != nil {
			return &models.RemoteRequestError{Op: op, Message: err.Error(), Cause: err}
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), payload)
	if err != nil {
		return &models.RemoteRequestError{Op: op, Message: err.Error(), Cause: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	log := logging.FromContext(ctx).With().
		Str("component", "api").
		Str("request_id", requestID).
		Str("op", op).
		Logger()
	if encoded != nil {
		if ev := log.Trace(); ev.Enabled() {
			ev.Interface("body", redactBody(encoded)).Msg("request body")
		}
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return &models.RemoteRequestError{Op: op, Message: err.Error(), Cause: err}
	}
	defer resp.Body.Close()

	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("request complete")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &models.RemoteRequestError{
			Op:      op,
			Status:  resp.StatusCode,
			Message: errorMessage(resp.StatusCode, data),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &models.RemoteRequestError{
			Op:      op,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("decode response: %v", err),
			Cause:   errors.Join(models.ErrMalformedResponse, err),
		}
	}
	return nil
}

// errorMessage extracts a human-readable message from an error body. A
// structured "message" field wins; otherwise the status line is used.
func errorMessage(status int, body []byte) string {
	var envelope struct {
		Message json.RawMessage `json:"message"`
		Error   string          `json:"error"`
	}
	if len(bytes.TrimSpace(body)) > 0 && json.Unmarshal(body, &envelope) == nil {
		if msg := decodeMessage(envelope.Message); msg != "" {
			return logging.Redact(msg)
		}
		if envelope.Error != "" {
			return logging.Redact(envelope.Error)
		}
	}
	return fmt.Sprintf("request failed with status %d %s", status, http.StatusText(status))
}

// decodeMessage accepts both "message": "x" and "message": ["x", "y"].
func decodeMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return strings.TrimSpace(single)
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return strings.TrimSpace(strings.Join(many, "; "))
	}
	return ""
}

func redactBody(encoded []byte) interface{} {
	var m map[string]interface{}
	if err := json.Unmarshal(encoded, &m); err != nil {
		return logging.Redact(string(encoded))
	}
	return logging.RedactMap(m)
}

func idPath(prefix, id, suffix string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", models.ErrIDRequired
	}
	return prefix + "/" + url.PathEscape(id) + suffix, nil
}
