// Package client talks to the command API over HTTP.
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

	"command-api/entities"
)

// ErrNotFound is returned when the server has no command with the given id.
var ErrNotFound = errors.New("command not found")

// APIError is any non-success response other than 404.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) List(ctx context.Context) ([]entities.Command, error) {
	var cmds []entities.Command
	if err := c.do(ctx, http.MethodGet, "/api/commands", nil, &cmds); err != nil {
		return nil, err
	}
	return cmds, nil
}

func (c *Client) Get(ctx context.Context, id uint) (*entities.Command, error) {
	var cmd entities.Command
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/commands/%d", id), nil, &cmd); err != nil {
		return nil, err
	}
	return &cmd, nil
}

func (c *Client) Create(ctx context.Context, cmd entities.Command) (*entities.Command, error) {
	var created entities.Command
	if err := c.do(ctx, http.MethodPost, "/api/commands", cmd, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) Replace(ctx context.Context, id uint, cmd entities.Command) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/commands/%d", id), cmd, nil)
}

func (c *Client) Delete(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/commands/%d", id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(resp.Body)
		msg := strings.TrimSpace(string(raw))
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
