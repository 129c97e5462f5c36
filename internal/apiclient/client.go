package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cx-tal-miterani/flight-booking-system/portal/models"
	"github.com/cx-tal-miterani/flight-booking-system/portal/pkg/logger"
)

// Credentials is the raw Cookie header of the browser request, forwarded to the upstream
// so that the upstream session applies.
type Credentials string

// FromRequest extracts the credentials of an incoming browser request
func FromRequest(r *http.Request) Credentials {
	return Credentials(r.Header.Get("Cookie"))
}

// APIError is a non-2xx answer from the upstream
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream returned status %d", e.Status)
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.Status, e.Message)
}

// IsAPIError reports whether err carries an upstream business failure
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// FlightAPI is the slice of the upstream REST API the portal consumes
type FlightAPI interface {
	SearchFlights(ctx context.Context, creds Credentials, q models.SearchQuery) ([]models.FlightSearchResult, error)
	CheckAuth(ctx context.Context, creds Credentials) (*models.AuthStatus, error)
	CreateBooking(ctx context.Context, creds Credentials, req models.BookingRequest) (*models.BookingResponse, error)
	BookingHistory(ctx context.Context, creds Credentials) ([]models.BookingRecord, error)
	Logout(ctx context.Context, creds Credentials) ([]*http.Cookie, error)
}

// Client talks to the upstream flight API over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient creates a client for baseURL (no trailing slash)
func NewClient(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
	}
}

// SearchFlights calls GET /api/flights/search
func (c *Client) SearchFlights(ctx context.Context, creds Credentials, q models.SearchQuery) ([]models.FlightSearchResult, error) {
	params := url.Values{}
	params.Set("source", q.Source)
	params.Set("destination", q.Destination)
	params.Set("date", q.Date)

	var resp models.SearchResponse
	if err := c.do(ctx, http.MethodGet, "/api/flights/search?"+params.Encode(), creds, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Flights, nil
}

// CheckAuth calls GET /api/check-auth
func (c *Client) CheckAuth(ctx context.Context, creds Credentials) (*models.AuthStatus, error) {
	var status models.AuthStatus
	if err := c.do(ctx, http.MethodGet, "/api/check-auth", creds, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// CreateBooking calls POST /api/bookings
func (c *Client) CreateBooking(ctx context.Context, creds Credentials, req models.BookingRequest) (*models.BookingResponse, error) {
	var resp models.BookingResponse
	if err := c.do(ctx, http.MethodPost, "/api/bookings", creds, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BookingHistory calls GET /api/bookings/history
func (c *Client) BookingHistory(ctx context.Context, creds Credentials) ([]models.BookingRecord, error) {
	var resp models.BookingHistoryResponse
	if err := c.do(ctx, http.MethodGet, "/api/bookings/history", creds, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Bookings, nil
}

// Logout calls GET /api/logout and returns the cookies the upstream set, so that the
// caller can relay the cleared session to the browser. The response body is ignored.
func (c *Client) Logout(ctx context.Context, creds Credentials) ([]*http.Cookie, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/logout", creds, nil)
	if err != nil {
		return nil, err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("logout request failed: %w", err)
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)
	return res.Cookies(), nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, creds Credentials, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if creds != "" {
		req.Header.Set("Cookie", string(creds))
	}
	return req, nil
}

func (c *Client) do(ctx context.Context, method, path string, creds Credentials, body, out interface{}) error {
	req, err := c.newRequest(ctx, method, path, creds, body)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", path, err)
	}

	c.logger.Debug("Upstream call", "method", method, "path", req.URL.Path, "status", res.StatusCode, "latency", time.Since(start))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &payload)
		return &APIError{Status: res.StatusCode, Message: payload.Error}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
