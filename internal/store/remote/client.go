package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"paydesk/internal/domain/payroll"
)

const collectionPath = "/payrolls"

// Client talks to a remote payroll store over its REST contract:
// GET/POST {base}/payrolls and PUT/DELETE {base}/payrolls/{id}.
type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New builds a client for baseURL (for example https://host/api). A zero
// timeout leaves calls bounded only by their context.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) List(ctx context.Context) ([]payroll.Record, error) {
	var records []payroll.Record
	if err := c.do(ctx, payroll.OpList, http.MethodGet, collectionPath, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) Create(ctx context.Context, record payroll.Record) (payroll.Record, error) {
	record.ID = ""
	var created payroll.Record
	if err := c.do(ctx, payroll.OpCreate, http.MethodPost, collectionPath, record, &created); err != nil {
		return payroll.Record{}, err
	}
	return created, nil
}

func (c *Client) Update(ctx context.Context, record payroll.Record) (payroll.Record, error) {
	if record.ID == "" {
		return payroll.Record{}, &payroll.ValidationError{Violation: payroll.ViolationMissingIdentifier}
	}
	var updated payroll.Record
	if err := c.do(ctx, payroll.OpUpdate, http.MethodPut, itemPath(record.ID), record, &updated); err != nil {
		return payroll.Record{}, err
	}
	return updated, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, payroll.OpDelete, http.MethodDelete, itemPath(id), nil, nil)
}

func itemPath(id string) string {
	return collectionPath + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &payroll.FetchError{Op: op, Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &payroll.FetchError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &payroll.FetchError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &payroll.FetchError{Op: op, StatusCode: resp.StatusCode}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &payroll.FetchError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}
