package emailcheck

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"prospector/internal/services"
)

const component = "email source"

// Statuses that confirm a mailbox.
const (
	StatusValid     = "valid"
	StatusAcceptAll = "accept_all"
)

// Config describes the email verification client configuration.
type Config struct {
	BaseURL    string
	Host       string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
}

// Client wraps the single-address verification API.
type Client struct {
	baseURL *url.URL
	host    string
	http    *http.Client
	limiter *rate.Limiter
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, services.Wrap(services.ErrConfiguration, component, "new", "base url is required", nil)
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, component, "new", "parse base url", err)
	}
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		baseURL: baseURL,
		host:    strings.TrimSpace(cfg.Host),
		http:    client,
		limiter: cfg.Limiter,
	}, nil
}

// Result is the verdict for one address.
type Result struct {
	Status string `json:"status"`
}

// Confirmed reports whether the status proves the address can receive mail.
func (r Result) Confirmed() bool {
	switch strings.ToLower(strings.TrimSpace(r.Status)) {
	case StatusValid, StatusAcceptAll:
		return true
	}
	return false
}

// Verify asks the source about one address. Failures are classified the same
// way as the lead source: 429 is services.ErrRateLimited.
func (c *Client) Verify(ctx context.Context, key, email string) (Result, error) {
	if c == nil {
		return Result{}, errors.New("emailcheck: client is nil")
	}
	if err := services.Pace(ctx, c.limiter); err != nil {
		return Result{}, err
	}
	endpoint := c.baseURL.JoinPath("v1", "verify")
	endpoint.RawQuery = url.Values{"email": {email}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return Result{}, services.Wrap(services.ErrUpstream, component, "build request", "", err)
	}
	req.Header.Set(services.HeaderAPIKey, key)
	req.Header.Set(services.HeaderAPIHost, c.host)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		return Result{}, services.Wrap(services.ErrUpstream, component, "verify", "request failed", err)
	}
	defer resp.Body.Close()

	if err := services.CheckResponse(component, "verify", resp); err != nil {
		return Result{}, err
	}

	var wire struct {
		Status *string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return Result{}, services.Wrap(services.ErrDecode, component, "verify", "decode response", err)
	}
	// Without a status the record would be settled as unmatched for good.
	if wire.Status == nil || strings.TrimSpace(*wire.Status) == "" {
		return Result{}, services.Wrap(services.ErrDecode, component, "verify", "response missing status", nil)
	}
	return Result{Status: strings.TrimSpace(*wire.Status)}, nil
}
