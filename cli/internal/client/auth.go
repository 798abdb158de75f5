package client

import (
	"net/http"
	"time"
)

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Superuser bool      `json:"superuser"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         *User     `json:"user"`
}

type ValidateResponse struct {
	Valid  bool     `json:"valid"`
	UserID string   `json:"user_id,omitempty"`
	Roles  []string `json:"roles,omitempty"`
}

func (c *Client) Login(username, password string) (*LoginResponse, error) {
	payload := map[string]string{
		"username": username,
		"password": password,
	}

	var resp LoginResponse
	if err := c.do(http.MethodPost, "/api/v1/auth/login", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Refresh(refreshToken string) (*LoginResponse, error) {
	payload := map[string]string{
		"refresh_token": refreshToken,
	}

	var resp LoginResponse
	if err := c.do(http.MethodPost, "/api/v1/auth/refresh", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Validate(token string) (*ValidateResponse, error) {
	payload := map[string]string{
		"token": token,
	}

	var resp ValidateResponse
	if err := c.do(http.MethodPost, "/api/v1/auth/validate", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
