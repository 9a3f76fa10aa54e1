// Package client talks to the registros REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"vera/internal/domain/registro"
)

const collectionPath = "/registros"

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

type Option func(*Client)

// WithToken sends token as a bearer credential on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) ListRegistros(ctx context.Context, p registro.Params) (registro.ListResponse, error) {
	path := collectionPath
	if q := p.Query(); q != "" {
		path += "?" + q
	}
	var out registro.ListResponse
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) GetRegistro(ctx context.Context, id string) (registro.Record, error) {
	var out registro.Record
	err := c.do(ctx, http.MethodGet, recordPath(id), nil, &out)
	return out, err
}

func (c *Client) CreateRegistro(ctx context.Context, in registro.CreateInput) (registro.Record, error) {
	var out registro.Record
	err := c.do(ctx, http.MethodPost, collectionPath, in, &out)
	return out, err
}

func (c *Client) UpdateRegistro(ctx context.Context, id string, in registro.UpdateInput) (registro.Record, error) {
	var out registro.Record
	err := c.do(ctx, http.MethodPatch, recordPath(id), in, &out)
	return out, err
}

func (c *Client) DeleteRegistro(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, recordPath(id), nil, nil)
}

// Health checks the readiness endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/readyz", nil, nil)
}

func recordPath(id string) string {
	return collectionPath + "/" + id
}

type errorBody struct {
	Message   string                    `json:"message"`
	Code      string                    `json:"code"`
	RequestID string                    `json:"requestId"`
	Fields    registro.ValidationErrors `json:"fields"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() == nil && isConnRefused(err) {
			return fmt.Errorf("%w (%s)", ErrUnavailable, c.baseURL)
		}
		return &NetworkError{Method: method, URL: url, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Method: method, URL: url, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusNotFound && strings.HasPrefix(path, collectionPath) && !strings.HasPrefix(path, collectionPath+"/") {
			return fmt.Errorf("%w (%s)", ErrUnavailable, c.baseURL)
		}
		httpErr := &HTTPError{StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil {
			httpErr.Message = eb.Message
			httpErr.Code = eb.Code
			httpErr.RequestID = eb.RequestID
			httpErr.Fields = eb.Fields
		}
		return httpErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func isConnRefused(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
