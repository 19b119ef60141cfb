// Package api is the client of the accounts REST service. Non-2xx
// responses surface the server's error field as the failure reason;
// transport failures surface the transport message.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type LoginResponse struct {
	Token  string         `json:"token"`
	User   map[string]any `json:"user"`
	UserID string         `json:"userId"`
}

type apiError struct {
	Error string `json:"error"`
}

func (c *Client) Register(ctx context.Context, email, password, name string) (string, error) {
	body := map[string]string{"email": email, "password": password, "name": name}

	var out struct {
		UID string `json:"uid"`
	}
	if err := c.post(ctx, "/accounts/register", "", body, &out, "Đăng ký thất bại!"); err != nil {
		return "", err
	}
	return out.UID, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body := map[string]string{"email": email, "password": password}

	var out LoginResponse
	if err := c.post(ctx, "/accounts/login", "", body, &out, "Đăng nhập thất bại!"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) LoginGoogle(ctx context.Context, uid, email, name, photoURL string) (string, error) {
	body := map[string]string{"uid": uid, "email": email, "name": name, "photoURL": photoURL}

	var out struct {
		Token string `json:"token"`
	}
	if err := c.post(ctx, "/accounts/loginGoogle", "", body, &out, "Đăng nhập Google thất bại!"); err != nil {
		return "", err
	}
	return out.Token, nil
}

// UpdateProfile is best-effort at the caller: a failure here degrades to
// a local-only merge in the account aggregate.
func (c *Client) UpdateProfile(ctx context.Context, token string, fields map[string]any) (map[string]any, error) {
	var out struct {
		User map[string]any `json:"user"`
	}
	if err := c.do(ctx, http.MethodPut, "/accounts/update", token, fields, &out, "Cập nhật thất bại!"); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *Client) post(ctx context.Context, path, token string, body, out any, fallback string) error {
	return c.do(ctx, http.MethodPost, path, token, body, out, fallback)
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any, fallback string) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return errors.New(apiErr.Error)
		}
		return errors.New(fallback)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
