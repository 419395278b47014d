// Package remote implements the durable-backend transport: an HTTP client
// for the worklogd record API. Any transport or server failure surfaces as
// an error, which the record store treats as a fallback trigger.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"worklog/internal/core"
	"worklog/internal/records"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Ensure interface conformance
var _ records.Backend = (*Client)(nil)

// NewClient creates a client for the record API at baseURL, e.g.
// "http://localhost:8081". A nil httpClient gets a 10 second timeout
// default; a hang at the transport is then an eventual failure.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// ListRecords fetches every record, newest first.
func (c *Client) ListRecords(ctx context.Context) ([]core.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/records", nil)
	if err != nil {
		return nil, fmt.Errorf("build list request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch records: unexpected status %d", resp.StatusCode)
	}

	var list []core.Record
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}

	now := time.Now()
	for i := range list {
		list[i].Normalize(now)
	}
	return list, nil
}

// CreateRecord posts the draft and returns the stored record with its
// backend-assigned id and created_at.
func (c *Client) CreateRecord(ctx context.Context, draft core.Draft) (core.Record, error) {
	body, err := json.Marshal(draft)
	if err != nil {
		return core.Record{}, fmt.Errorf("encode draft: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/records", bytes.NewReader(body))
	if err != nil {
		return core.Record{}, fmt.Errorf("build create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return core.Record{}, fmt.Errorf("create record: %w", err)
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusCreated {
		return core.Record{}, fmt.Errorf("create record: unexpected status %d", resp.StatusCode)
	}

	var rec core.Record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return core.Record{}, fmt.Errorf("decode created record: %w", err)
	}
	rec.Normalize(time.Now())
	return rec, nil
}

// DeleteRecord removes the record with the given id. A 404 answer means
// the record was never there; deletes are idempotent, so that counts as
// success rather than a fallback-triggering failure.
func (c *Client) DeleteRecord(ctx context.Context, id int64) error {
	url := c.baseURL + "/api/records/" + strconv.FormatInt(id, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	defer drain(resp)

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK, http.StatusNotFound:
		return nil
	default:
		return fmt.Errorf("delete record: unexpected status %d", resp.StatusCode)
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
}
