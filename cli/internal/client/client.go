// Package client is the HTTP client the CLI uses to talk to the records
// service.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the records service API. The access token is optional;
// unauthenticated endpoints (login, refresh) work without one.
type Client struct {
	baseURL     string
	accessToken string
	client      *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// WithToken returns a copy of the client that authenticates with the given
// access token.
func (c *Client) WithToken(token string) *Client {
	return &Client{
		baseURL:     c.baseURL,
		accessToken: token,
		client:      c.client,
	}
}

type apiError struct {
	Error string `json:"error"`
}

// do issues a request with an optional JSON body and decodes the JSON
// response into out when out is non-nil. Non-2xx responses are returned as
// errors carrying the server's error message.
func (c *Client) do(method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(b)
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		var apiErr apiError
		if json.Unmarshal(bodyBytes, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s (status %d)", method, path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, string(bodyBytes))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
