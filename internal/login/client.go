package login

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"campus/internal/session"
	"campus/internal/tenant"
	"campus/pkg/sentinel"
)

// HTTPClient calls the backend auth endpoints.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

var _ Authenticator = (*HTTPClient)(nil)
var _ EmailChecker = (*HTTPClient)(nil)

// HTTPClientOption configures the HTTPClient.
type HTTPClientOption func(*HTTPClient)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(client *http.Client) HTTPClientOption {
	return func(c *HTTPClient) {
		c.httpClient = client
	}
}

// NewHTTPClient creates a backend auth client.
func NewHTTPClient(baseURL string, timeout time.Duration, opts ...HTTPClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// adminLoginResponse is the wire shape of POST /auth/login.
type adminLoginResponse struct {
	Data struct {
		Token string      `json:"token"`
		User  userPayload `json:"user"`
	} `json:"data"`
}

// memberLoginResponse is the wire shape of POST /user/login.
type memberLoginResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Token string      `json:"token"`
		User  userPayload `json:"user"`
	} `json:"data"`
}

// emailCheckRequest is the wire shape of POST /email-check.
type emailCheckRequest struct {
	Email string `json:"email"`
}

type emailCheckResponse struct {
	Success   bool           `json:"success"`
	UserType  string         `json:"userType"`
	Community *tenant.Tenant `json:"community"`
}

// AdminLogin authenticates a community admin.
// Returns sentinel.ErrRejected for bad credentials and sentinel.ErrUnavailable
// for transport failures.
func (c *HTTPClient) AdminLogin(ctx context.Context, email, password string) (session.Credentials, error) {
	body, err := c.post(ctx, "/auth/login", loginRequest{Email: email, Password: password})
	if err != nil {
		return session.Credentials{}, err
	}

	var payload adminLoginResponse
	if err := json.Unmarshal(body, &payload); err != nil || payload.Data.Token == "" {
		return session.Credentials{}, fmt.Errorf("admin login: %w", sentinel.ErrRejected)
	}
	return session.Credentials{
		Token: payload.Data.Token,
		Principal: session.Record{
			ID:    payload.Data.User.ID,
			Email: payload.Data.User.Email,
			Name:  payload.Data.User.Name,
		},
	}, nil
}

// MemberLogin authenticates a community-enrolled end user.
func (c *HTTPClient) MemberLogin(ctx context.Context, email, password string) (session.Credentials, error) {
	body, err := c.post(ctx, "/user/login", loginRequest{Email: email, Password: password})
	if err != nil {
		return session.Credentials{}, err
	}

	var payload memberLoginResponse
	if err := json.Unmarshal(body, &payload); err != nil || !payload.Success || payload.Data.Token == "" {
		return session.Credentials{}, fmt.Errorf("member login: %w", sentinel.ErrRejected)
	}
	return session.Credentials{
		Token: payload.Data.Token,
		Principal: session.Record{
			ID:    payload.Data.User.ID,
			Email: payload.Data.User.Email,
			Name:  payload.Data.User.Name,
		},
	}, nil
}

// CheckEmail classifies an email address into an account class.
// Any failure, including transport errors, yields an unrecognized probe error;
// the caller falls back to sequential trial login.
func (c *HTTPClient) CheckEmail(ctx context.Context, email string) (Probe, error) {
	body, err := c.post(ctx, "/email-check", emailCheckRequest{Email: email})
	if err != nil {
		return Probe{}, err
	}

	var payload emailCheckResponse
	if err := json.Unmarshal(body, &payload); err != nil || !payload.Success {
		return Probe{}, fmt.Errorf("email check: %w", sentinel.ErrNotFound)
	}

	kind := session.KindMember
	if payload.UserType == "admin" {
		kind = session.KindAdmin
	}
	return Probe{Recognized: true, Kind: kind, Tenant: payload.Community}, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, request any) ([]byte, error) {
	reqBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w: %w", path, sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w: %w", path, sentinel.ErrUnavailable, err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%s status %d: %w", path, resp.StatusCode, sentinel.ErrUnavailable)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s status %d: %w", path, resp.StatusCode, sentinel.ErrRejected)
	}
	return body, nil
}
