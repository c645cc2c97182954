// Package casemgmt implements ports.SyncClient against a case-management
// REST backend. Entities are pushed under the case the editor was opened
// for.
package casemgmt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avelar0/kinmap/pkg/domain"
)

const defaultTimeout = 10 * time.Second

// Client talks to a case-management API.
type Client struct {
	baseURL string
	caseID  string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, e.g. to add auth
// transports.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a client for one case.
func New(baseURL, caseID string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		caseID:  caseID,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PushPerson upserts a person record.
func (c *Client) PushPerson(ctx context.Context, p domain.Person) error {
	return c.send(ctx, http.MethodPut, fmt.Sprintf("/api/cases/%s/people/%s", c.caseID, p.ID), p)
}

// RemovePerson deletes a person record.
func (c *Client) RemovePerson(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/api/cases/%s/people/%s", c.caseID, id), nil)
}

// PushRelationship upserts a relationship record.
func (c *Client) PushRelationship(ctx context.Context, r domain.Relationship) error {
	return c.send(ctx, http.MethodPut, fmt.Sprintf("/api/cases/%s/relationships/%s", c.caseID, r.ID), r)
}

// RemoveRelationship deletes a relationship record.
func (c *Client) RemoveRelationship(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/api/cases/%s/relationships/%s", c.caseID, id), nil)
}

// PushDocument uploads the whole document, used for explicit saves.
func (c *Client) PushDocument(ctx context.Context, doc *domain.Document) error {
	return c.send(ctx, http.MethodPut, fmt.Sprintf("/api/cases/%s/document", c.caseID), doc)
}

func (c *Client) send(ctx context.Context, method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("backend returned %s for %s %s", resp.Status, method, path)
	}
	return nil
}
