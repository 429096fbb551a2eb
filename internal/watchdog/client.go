package watchdog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dharashakti/backoffice/internal/common/cnst"
	"github.com/dharashakti/backoffice/internal/common/dto"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Session is what a successful login hands the client
type Session struct {
	EmployeeID   string
	Name         string
	Role         string
	SessionToken string
	Token        string
}

// APIClient talks to the apiserver. It is the production StatusSource.
type APIClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// SetToken sets the bearer token sent with authenticated requests
func (c *APIClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *APIClient) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login signs in and keeps the returned bearer token
func (c *APIClient) Login(ctx context.Context, employeeID, password string) (*Session, error) {
	var resp dto.LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/login", &dto.LoginRequest{Identifier: employeeID, Credential: password}, &resp)
	if err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return &Session{
		EmployeeID:   resp.User.EmployeeID,
		Name:         resp.User.Name,
		Role:         resp.User.Role,
		SessionToken: resp.SessionToken,
		Token:        resp.Token,
	}, nil
}

// Logout ends the current session on the server
func (c *APIClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/logout", nil, nil)
}

// SessionStatus implements StatusSource
func (c *APIClient) SessionStatus(ctx context.Context, employeeID string) (*RemoteStatus, error) {
	var resp dto.SessionCheckResponse
	if err := c.do(ctx, http.MethodGet, "/api/users/session-check/"+url.PathEscape(employeeID), nil, &resp); err != nil {
		return nil, err
	}
	status := &RemoteStatus{IsBlocked: resp.IsBlocked}
	if resp.ActiveSessionID != nil {
		status.ActiveSessionID = *resp.ActiveSessionID
	}
	return status, nil
}

// StatusError is a non-2xx answer from the server
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.StatusCode)
}

func (c *APIClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.bearer(); token != "" {
		req.Header.Set(cnst.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&e)
		return &StatusError{StatusCode: resp.StatusCode, Message: e.Message}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
