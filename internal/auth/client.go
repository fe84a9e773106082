// Package auth talks to the bookstore auth service. The storefront
// treats the token as opaque: its presence gates order submission and it
// is forwarded as a bearer header, nothing more.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Team-Bodhi/bodhi/internal/domain"
)

var ErrInvalidCredentials = errors.New("incorrect email or password")

type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		timeout:    timeout,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse mirrors the auth service's nested envelope.
type loginResponse struct {
	Data struct {
		User  *domain.User `json:"user"`
		Token string       `json:"token"`
	} `json:"data"`
}

// Login exchanges credentials for a token and user profile.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, "", fmt.Errorf("marshal login request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("auth service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusNotFound {
		return nil, "", ErrInvalidCredentials
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("auth service returned %d", resp.StatusCode)
	}

	var parsed loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, "", fmt.Errorf("decode login response: %w", err)
	}
	if parsed.Data.User == nil || parsed.Data.Token == "" {
		return nil, "", errors.New("login response missing user or token")
	}

	return parsed.Data.User, parsed.Data.Token, nil
}
