package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/okian/jelajah/internal/domain/model"
	"github.com/okian/jelajah/internal/domain/types"
)

const maxResponseBytes = 4 << 20

// ErrStatus is returned when the server answers with an unexpected status.
var ErrStatus = errors.New("unexpected status")

// APIError is the error body the server writes for non-2xx responses.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %d %s: %s", ErrStatus, e.Status, e.Code, e.Message)
}

func (e *APIError) Unwrap() error { return ErrStatus }

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// Client talks to the jelajah HTTP API.
type Client struct {
	base *url.URL
	http *http.Client
}

// NewClient creates a client for baseURL.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	return &Client{
		base: u,
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

// Categories lists the categories the server knows.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out []string
	_, err := c.do(ctx, http.MethodGet, "/api/categories", nil, nil, &out)
	return out, err
}

// Regions lists the regions present in the catalog.
func (c *Client) Regions(ctx context.Context) ([]string, error) {
	var out []string
	_, err := c.do(ctx, http.MethodGet, "/api/regions", nil, nil, &out)
	return out, err
}

// Recommend calls the plain recommendation route.
func (c *Client) Recommend(ctx context.Context, interest, address string) (model.Result, error) {
	var out model.Result
	q := url.Values{"interest": {interest}, "address": {address}}
	_, err := c.do(ctx, http.MethodGet, "/api/recommendations", q, nil, &out)
	return out, err
}

// Filtered calls the filtered route with the given overrides.
func (c *Client) Filtered(ctx context.Context, interest, address string, f model.Filters) (model.Result, error) {
	var out model.Result
	q := url.Values{"interest": {interest}, "address": {address}}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Region != "" {
		q.Set("region", f.Region)
	}
	if f.Subregion != "" {
		q.Set("subregion", f.Subregion)
	}
	_, err := c.do(ctx, http.MethodGet, "/api/recommendations/filtered", q, nil, &out)
	return out, err
}

// Personalized calls the per-user route.
func (c *Client) Personalized(ctx context.Context, userID string) (model.Result, error) {
	var out model.Result
	_, err := c.do(ctx, http.MethodGet, "/api/recommend/"+url.PathEscape(userID), nil, nil, &out)
	return out, err
}

// PutProfile stores the profile of userID.
func (c *Client) PutProfile(ctx context.Context, userID, interest, address string) (model.Profile, error) {
	var out model.Profile
	body := map[string]string{"interest": interest, "address": address}
	_, err := c.do(ctx, http.MethodPut, "/api/users/"+url.PathEscape(userID)+"/profile", nil, body, &out)
	return out, err
}

// PostVisit submits a visit and returns the receipt and the status code.
func (c *Client) PostVisit(ctx context.Context, userID, visitID, destinationID string) (types.VisitReceipt, int, error) {
	var out types.VisitReceipt
	body := map[string]string{"visitId": visitID, "destinationId": destinationID}
	status, err := c.do(ctx, http.MethodPost, "/api/users/"+url.PathEscape(userID)+"/visits", nil, body, &out)
	return out, status, err
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body, dst any) (int, error) {
	u := c.base.JoinPath(path)
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.Unmarshal(raw, apiErr)
		return resp.StatusCode, apiErr
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return resp.StatusCode, fmt.Errorf("decode envelope: %w", err)
	}
	if dst != nil {
		if err := json.Unmarshal(env.Data, dst); err != nil {
			return resp.StatusCode, fmt.Errorf("decode data: %w", err)
		}
	}
	return resp.StatusCode, nil
}
