// Package backend is the HTTP client for the OCR intake backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/suya12/ocr-claim-review/internal/models"
)

// ErrRequestFailed is returned for transport failures, non-200 responses
// and responses without ok:true.
var ErrRequestFailed = errors.New("backend request failed")

// Client talks to the backend under a fixed base URL. Every request carries
// the API key and a correlation ID, attached uniformly by the transport.
type Client struct {
	baseURL string
	http    *http.Client
}

// keyTransport injects the x-api-key and x-request-id headers on every
// outbound request.
type keyTransport struct {
	apiKey string
	next   http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t keyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("x-api-key", t.apiKey)
	r.Header.Set("x-request-id", uuid.NewString())
	return t.next.RoundTrip(r)
}

// New creates a Client for the given base URL and API key.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: keyTransport{apiKey: apiKey, next: http.DefaultTransport},
		},
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// listResponse tolerates both response shapes of GET /claims: an object
// wrapping items, or a bare array.
type listResponse struct {
	Items []models.ClaimRecord `json:"items"`
}

// ListClaims fetches one page of claim records.
func (c *Client) ListClaims(ctx context.Context, skip, limit int) ([]models.ClaimRecord, error) {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/claims?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrRequestFailed, err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: GET /claims returned %d", ErrRequestFailed, res.StatusCode)
	}

	var wrapped listResponse
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Items != nil {
		return wrapped.Items, nil
	}
	var bare []models.ClaimRecord
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare, nil
	}
	return nil, nil
}

// okResponse is the success envelope of every mutating backend call.
type okResponse struct {
	OK bool `json:"ok"`
}

// patchFields issues PATCH /claims/{id}/fields with the given body and
// treats anything but HTTP 200 with ok:true as failure.
func (c *Client) patchFields(ctx context.Context, requestID string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	u := c.baseURL + "/claims/" + url.PathEscape(requestID) + "/fields"
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, u, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: PATCH %s returned %d", ErrRequestFailed, u, res.StatusCode)
	}
	var ok okResponse
	if err := json.NewDecoder(res.Body).Decode(&ok); err != nil || !ok.OK {
		return fmt.Errorf("%w: unexpected response", ErrRequestFailed)
	}
	return nil
}

// PatchFields sends the minimal field patch for one claim.
func (c *Client) PatchFields(ctx context.Context, requestID string, patch models.FieldPatch) error {
	return c.patchFields(ctx, requestID, map[string]any{"fields": patch})
}

// Confirm marks a claim as confirmed on the backend.
func (c *Client) Confirm(ctx context.Context, requestID, key string, claim models.ClaimRow) error {
	return c.patchFields(ctx, requestID, map[string]any{
		"status": string(models.StatusConfirmed),
		"key":    key,
		"claim":  claim,
	})
}
