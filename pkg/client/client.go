// Package client is a small HTTP client for the SAMS API used by the
// offline sync tool.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/noah-isme/sams-api/internal/dto"
	"github.com/noah-isme/sams-api/internal/models"
)

// DefaultRenewHeader carries refreshed tokens on authenticated responses.
const DefaultRenewHeader = "X-Renewed-Token"

// ErrNotLoggedIn is returned by authenticated calls without a session token.
var ErrNotLoggedIn = errors.New("not logged in")

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Retryable reports whether the request may succeed later unchanged.
// Transport failures and server errors are retryable, rejections are not.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, ErrNotLoggedIn) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= http.StatusInternalServerError
	}
	return !errors.Is(err, context.Canceled)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
}

// Client calls the SAMS API under BaseURL, which includes the API prefix.
type Client struct {
	BaseURL     string
	HTTP        *http.Client
	Session     *Session
	RenewHeader string
}

// New creates a client with the given timeout. A nil session starts empty.
func New(baseURL string, session *Session, timeout time.Duration) *Client {
	if session == nil {
		session = &Session{}
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		HTTP:        &http.Client{Timeout: timeout},
		Session:     session,
		RenewHeader: DefaultRenewHeader,
	}
}

// Login authenticates and populates the session.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var out models.AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", dto.LoginRequest{Email: email, Password: password}, false, &out)
	if err != nil {
		return nil, err
	}
	c.Session.Set(out.Token, out.User)
	return &out, nil
}

// Logout revokes the token server side and clears the session. The session
// is cleared even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	defer c.Session.Clear()
	if c.Session.Token() == "" {
		return nil
	}
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, true, nil)
}

// Mark stores one attendance sheet.
func (c *Client) Mark(ctx context.Context, req dto.MarkAttendanceRequest) (*models.Attendance, error) {
	var out models.Attendance
	if err := c.do(ctx, http.MethodPost, "/attendance/mark", req, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Sync stores a batch of sheets in one all-or-nothing call.
func (c *Client) Sync(ctx context.Context, req dto.SyncAttendanceRequest) (*dto.SyncAttendanceResponse, error) {
	var out dto.SyncAttendanceResponse
	if err := c.do(ctx, http.MethodPost, "/attendance/sync", req, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, authed bool, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		token := c.Session.Token()
		if token == "" {
			return ErrNotLoggedIn
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if renewed := resp.Header.Get(c.RenewHeader); renewed != "" && authed {
		c.Session.renew(renewed)
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < http.StatusBadRequest {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return &APIError{Status: resp.StatusCode, Code: env.Code, Message: env.Message}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
