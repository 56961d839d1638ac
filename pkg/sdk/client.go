// Package sdk provides the client-side library for the phonebook.
// It talks to a running phonebookd over HTTP, or runs the service in-process
// when no daemon address is configured.
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/celerix-dev/phonebook/pkg/schema"
)

// Client is a remote client for the phonebook REST API.
// It implements the Phonebook interface.
type Client struct {
	base *url.URL
	http *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// Connect returns a client for the daemon at baseURL, e.g. http://localhost:3001.
func Connect(baseURL string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	c := &Client{
		base: u,
		http: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) ListAll(ctx context.Context) ([]schema.Person, error) {
	var views []schema.PersonView
	if err := c.do(ctx, http.MethodGet, "/api/persons", nil, &views); err != nil {
		return nil, err
	}
	people := make([]schema.Person, 0, len(views))
	for _, v := range views {
		people = append(people, fromView(v))
	}
	return people, nil
}

func (c *Client) GetByID(ctx context.Context, id string) (*schema.Person, error) {
	var v schema.PersonView
	if err := c.do(ctx, http.MethodGet, "/api/persons/"+url.PathEscape(id), nil, &v); err != nil {
		return nil, err
	}
	p := fromView(v)
	return &p, nil
}

func (c *Client) Create(ctx context.Context, candidate schema.Candidate) (*schema.Person, error) {
	var v schema.PersonView
	if err := c.do(ctx, http.MethodPost, "/api/persons", candidate, &v); err != nil {
		return nil, err
	}
	p := fromView(v)
	return &p, nil
}

func (c *Client) UpdateByID(ctx context.Context, id string, candidate schema.Candidate) (*schema.Person, error) {
	var v schema.PersonView
	if err := c.do(ctx, http.MethodPut, "/api/persons/"+url.PathEscape(id), candidate, &v); err != nil {
		return nil, err
	}
	p := fromView(v)
	return &p, nil
}

func (c *Client) DeleteByID(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/persons/"+url.PathEscape(id), nil, nil)
}

func (c *Client) Info(ctx context.Context) (*schema.InfoReport, error) {
	var report schema.InfoReport
	if err := c.do(ctx, http.MethodGet, "/api/info", nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Internal helper for one JSON round trip.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &schema.Error{Kind: schema.KindStore, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError turns an error response back into a phonebook error.
func decodeError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(raw, &payload)

	switch {
	case resp.StatusCode == http.StatusNotFound && payload.Error == "":
		return &schema.Error{Kind: schema.KindNotFound, Message: schema.ErrNotFound.Message}
	case resp.StatusCode == http.StatusBadRequest && payload.Error == schema.ErrMalformedID.Message:
		return &schema.Error{Kind: schema.KindMalformedID, Message: payload.Error}
	case resp.StatusCode == http.StatusBadRequest && payload.Error == schema.ErrDuplicateName.Message:
		return &schema.Error{Kind: schema.KindDuplicateName, Message: payload.Error}
	case resp.StatusCode == http.StatusBadRequest:
		return &schema.Error{Kind: schema.KindValidation, Message: payload.Error}
	default:
		msg := payload.Error
		if msg == "" {
			msg = resp.Status
		}
		return &schema.Error{Kind: schema.KindStore, Message: msg}
	}
}

func fromView(v schema.PersonView) schema.Person {
	return schema.Person{ID: v.ID, Name: v.Name, Number: v.Number}
}
