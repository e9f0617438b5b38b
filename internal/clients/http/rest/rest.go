// Package rest is the shared transport under the typed collaborator
// clients. It performs plain JSON request/response exchanges and maps
// response status onto the orders failure taxonomy. It never retries and
// never caches; both are layered on top by the orchestrator.
package rest

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

	"github.com/Apurer/go-order-saga/internal/domains/orders/ports"
)

const defaultTimeout = 5 * time.Second

// Client issues JSON calls against one collaborator base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client with sane defaults when no http.Client is supplied.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("collaborator base URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: baseURL, http: httpClient}, nil
}

// problemBody mirrors the RFC 7807 payload the collaborator services emit.
type problemBody struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// Do sends method+path with the optional JSON body and decodes a 2xx
// response into out when out is non-nil.
//
// Status mapping: 404 -> ports.ErrNotFound, any other 4xx ->
// ports.ErrRejected, 5xx and transport errors (timeouts included) ->
// ports.ErrUnavailable.
func (c *Client) Do(ctx context.Context, method, path string, body any, out any) error {
	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ports.ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode %s %s response: %v", ports.ErrUnavailable, method, path, err)
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s %s: %s", ports.ErrNotFound, method, path, responseDetail(resp))
	case resp.StatusCode < http.StatusInternalServerError:
		return fmt.Errorf("%w: %s %s: %s", ports.ErrRejected, method, path, responseDetail(resp))
	default:
		return fmt.Errorf("%w: %s %s: %s", ports.ErrUnavailable, method, path, responseDetail(resp))
	}
}

func responseDetail(resp *http.Response) string {
	var problem problemBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&problem); err == nil {
		if detail := strings.TrimSpace(problem.Detail); detail != "" {
			return detail
		}
		if title := strings.TrimSpace(problem.Title); title != "" {
			return title
		}
	}
	return resp.Status
}
