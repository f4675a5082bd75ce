// Package apollo provides a client for the Apollo.io people data API.
package apollo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.apollo.io/api/v1"

// Client defines the Apollo API operations used by the enrichment service.
type Client interface {
	// MatchPerson calls POST /people/match. A nil person with a nil error
	// means Apollo found no match.
	MatchPerson(ctx context.Context, req MatchRequest) (*Person, error)
	// SearchPeople calls POST /mixed_people/search.
	SearchPeople(ctx context.Context, req SearchRequest) (*SearchResponse, error)
	// FindEmail calls POST /email_finder.
	FindEmail(ctx context.Context, req EmailFinderRequest) (*EmailFinderResponse, error)
	// SearchOrganizations calls POST /organizations/search with per_page=1
	// and reports only success; it is used to validate credentials.
	SearchOrganizations(ctx context.Context) error
	// EnrichOrganization calls GET /organizations/enrich.
	EnrichOrganization(ctx context.Context, domain string) (*Organization, error)
	// ProbeMatch sends a throwaway people/match request and returns the HTTP
	// status so callers can tell whether phone reveal is permitted.
	ProbeMatch(ctx context.Context) (int, error)
}

// APIError is returned for any non-2xx Apollo response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 300 {
		body = body[:300]
	}
	return fmt.Sprintf("apollo: unexpected status %d: %s", e.StatusCode, body)
}

// StatusCode returns the HTTP status carried by an APIError in err's chain,
// or 0 when there is none.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithOAuth sends the credential as a bearer access token instead of an
// X-Api-Key header.
func WithOAuth() Option {
	return func(c *httpClient) {
		c.oauth = true
	}
}

// WithRateLimit caps outbound requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		}
	}
}

type httpClient struct {
	credential string
	oauth      bool
	baseURL    string
	http       *http.Client
	limiter    *rate.Limiter
}

// NewClient creates an Apollo API client. The credential is an API key, or
// an OAuth access token when WithOAuth is given.
func NewClient(credential string, opts ...Option) Client {
	c := &httpClient{
		credential: strings.TrimSpace(credential),
		baseURL:    defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) MatchPerson(ctx context.Context, req MatchRequest) (*Person, error) {
	var resp MatchResponse
	if err := c.do(ctx, http.MethodPost, "/people/match", req, &resp); err != nil {
		return nil, eris.Wrap(err, "apollo: match person")
	}
	return resp.Person, nil
}

func (c *httpClient) SearchPeople(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PerPage == 0 {
		req.PerPage = 10
	}
	var resp SearchResponse
	if err := c.do(ctx, http.MethodPost, "/mixed_people/search", req, &resp); err != nil {
		return nil, eris.Wrap(err, "apollo: search people")
	}
	return &resp, nil
}

func (c *httpClient) FindEmail(ctx context.Context, req EmailFinderRequest) (*EmailFinderResponse, error) {
	var resp EmailFinderResponse
	if err := c.do(ctx, http.MethodPost, "/email_finder", req, &resp); err != nil {
		return nil, eris.Wrap(err, "apollo: find email")
	}
	return &resp, nil
}

func (c *httpClient) SearchOrganizations(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/organizations/search", map[string]int{"per_page": 1}, nil); err != nil {
		return eris.Wrap(err, "apollo: search organizations")
	}
	return nil
}

func (c *httpClient) EnrichOrganization(ctx context.Context, domain string) (*Organization, error) {
	path := "/organizations/enrich?domain=" + url.QueryEscape(domain)
	var resp OrganizationResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, eris.Wrapf(err, "apollo: enrich organization %s", domain)
	}
	return resp.Organization, nil
}

func (c *httpClient) ProbeMatch(ctx context.Context) (int, error) {
	body := MatchRequest{ID: "test", RevealPersonalEmails: true, RevealPhoneNumber: true}
	err := c.do(ctx, http.MethodPost, "/people/match", body, nil)
	if code := StatusCode(err); code != 0 && code < 500 {
		return code, nil
	}
	if err != nil {
		return 0, eris.Wrap(err, "apollo: probe match")
	}
	return http.StatusOK, nil
}

func (c *httpClient) do(ctx context.Context, method, path string, in, out any) error {
	if c.credential == "" {
		return eris.New("apollo: credential not configured")
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "apollo: rate limit")
		}
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return eris.Wrap(err, "apollo: marshal request")
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return eris.Wrap(err, "apollo: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	if c.oauth {
		req.Header.Set("Authorization", "Bearer "+c.credential)
	} else {
		req.Header.Set("X-Api-Key", c.credential)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "apollo: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "apollo: read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "apollo: unmarshal response")
	}
	return nil
}
