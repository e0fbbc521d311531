// Package client calls a running dice service over HTTP.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/louisbranch/diceroll/internal/platform/timeouts"
	"github.com/louisbranch/diceroll/internal/services/dice/die"
	"github.com/louisbranch/diceroll/internal/services/dice/routepath"
)

// ErrUnexpectedStatus indicates the service answered with a non-200 status.
var ErrUnexpectedStatus = errors.New("unexpected response status")

// ErrInvalidFace indicates the service returned a value no die can show.
var ErrInvalidFace = errors.New("face value out of range")

// Client rolls dice against one service base URL.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// New builds a client for baseURL. A nil httpClient gets a default client
// bounded by timeouts.HTTPRequest.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	raw := strings.TrimSpace(baseURL)
	if raw == "" {
		return nil, errors.New("base url is required")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("base url %q must include scheme and host", raw)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeouts.HTTPRequest}
	}
	return &Client{baseURL: parsed, http: httpClient}, nil
}

// Roll requests one face from the roll endpoint.
func (c *Client) Roll(ctx context.Context) (int, error) {
	return c.get(ctx, routepath.DiceRoll)
}

// RollFromRoot requests the root path and follows its redirect to the roll
// endpoint.
func (c *Client) RollFromRoot(ctx context.Context) (int, error) {
	return c.get(ctx, routepath.Root)
}

func (c *Client) get(ctx context.Context, path string) (int, error) {
	if c == nil {
		return 0, errors.New("dice client is nil")
	}
	if ctx == nil {
		return 0, errors.New("context is required")
	}
	target := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("build roll request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("roll request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return 0, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	var face int
	if err := json.NewDecoder(resp.Body).Decode(&face); err != nil {
		return 0, fmt.Errorf("decode roll response: %w", err)
	}
	if !die.Valid(face) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidFace, face)
	}
	return face, nil
}
