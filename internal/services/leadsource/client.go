package leadsource

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"prospector/internal/filter"
	"prospector/internal/services"
)

const component = "lead source"

// Config describes the lead source client configuration.
type Config struct {
	BaseURL    string
	Host       string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
}

// Client wraps the paginated people search API.
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

// Person is one search hit. Empty strings mean the source omitted the field.
type Person struct {
	ID                      string `json:"id"`
	FirstName               string `json:"firstName"`
	LastName                string `json:"lastName"`
	Name                    string `json:"name"`
	Title                   string `json:"title"`
	LinkedInURL             string `json:"linkedinUrl"`
	State                   string `json:"state"`
	City                    string `json:"city"`
	Country                 string `json:"country"`
	OrganizationName        string `json:"organizationName"`
	OrganizationWebsiteURL  string `json:"organizationWebsiteUrl"`
	OrganizationFacebookURL string `json:"organizationFacebookUrl"`
	OrganizationLinkedInURL string `json:"organizationLinkedinUrl"`
}

// Page is one response of the search. An empty Next means no further pages.
type Page struct {
	Next   string   `json:"next"`
	Total  int      `json:"total"`
	People []Person `json:"people"`
}

// wirePage tells an absent or null field apart from an empty one. A 200 body
// of any other shape (quota notices, gateway errors) must not read as the
// last page.
type wirePage struct {
	Next   *string   `json:"next"`
	Total  *int      `json:"total"`
	People *[]Person `json:"people"`
}

func (w wirePage) page() (Page, error) {
	var missing []string
	if w.Next == nil {
		missing = append(missing, "next")
	}
	if w.Total == nil {
		missing = append(missing, "total")
	}
	if w.People == nil {
		missing = append(missing, "people")
	}
	if len(missing) > 0 {
		return Page{}, services.Wrap(services.ErrDecode, component, "page",
			"response missing "+strings.Join(missing, ", "), nil)
	}
	return Page{Next: *w.Next, Total: *w.Total, People: *w.People}, nil
}

// PageRequest builds the GET request for one page. The same cursor and key
// always produce the same request.
func (c *Client) PageRequest(ctx context.Context, key string, spec filter.Spec, cursor string) (*http.Request, error) {
	endpoint := c.baseURL.JoinPath("page")
	params := spec.Query()
	if cursor != "" {
		params.Set("next", cursor)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, services.Wrap(services.ErrUpstream, component, "build request", "", err)
	}
	req.Header.Set(services.HeaderAPIKey, key)
	req.Header.Set(services.HeaderAPIHost, c.host)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// FetchPage requests the page following cursor ("" for the first page).
// A 429 is reported as services.ErrRateLimited, other failures as
// services.ErrUpstream, and a body that does not decode or lacks next, total
// or people as services.ErrDecode.
func (c *Client) FetchPage(ctx context.Context, key string, spec filter.Spec, cursor string) (Page, error) {
	if c == nil {
		return Page{}, errors.New("leadsource: client is nil")
	}
	if err := services.Pace(ctx, c.limiter); err != nil {
		return Page{}, err
	}
	req, err := c.PageRequest(ctx, key, spec, cursor)
	if err != nil {
		return Page{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Page{}, ctxErr
		}
		return Page{}, services.Wrap(services.ErrUpstream, component, "page", "request failed", err)
	}
	defer resp.Body.Close()

	if err := services.CheckResponse(component, "page", resp); err != nil {
		return Page{}, err
	}

	var wire wirePage
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return Page{}, services.Wrap(services.ErrDecode, component, "page", "decode response", err)
	}
	return wire.page()
}
