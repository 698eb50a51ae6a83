// Package s2 is a rate-limited client for the Semantic Scholar Graph API.
package s2

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/matsen/citemap/internal/paper"
)

const (
	// BaseURL is the Graph API base URL.
	BaseURL = "https://api.semanticscholar.org/graph/v1"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit is 1 request per second, the unauthenticated quota.
	RateLimit = 1.0

	// PaperFields are the fields requested for paper lookups.
	PaperFields = "paperId,title,year,venue,authors,externalIds,url,isOpenAccess,openAccessPdf,publicationVenue,journal,abstract,citationCount,referenceCount"

	// Default limits for search and paging.
	DefaultSearchLimit = 10
	DefaultPageSize    = 100
)

// Client is a rate-limited HTTP client for the Graph API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the API key for authenticated requests.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// NewClient creates a new Graph API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}

	if key := os.Getenv("SEMANTIC_SCHOLAR_API_KEY"); key != "" {
		c.apiKey = key
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// getJSON performs a rate-limited GET and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

// Paper fetches one paper's metadata by S2 paper ID, DOI:..., or
// ARXIV:... identifier.
func (c *Client) Paper(ctx context.Context, id string) (*paper.Paper, error) {
	params := url.Values{"fields": {PaperFields}}

	var sp S2Paper
	if err := c.getJSON(ctx, "/paper/"+url.PathEscape(id), params, &sp); err != nil {
		return nil, err
	}
	return sp.ToPaper(), nil
}

// SearchPaperID resolves a title string to a paper ID. An exact
// case-insensitive title match among the candidates wins, preferring
// candidates from the given year when set; otherwise the top-ranked
// candidate is returned. An empty result means no match, not an error.
func (c *Client) SearchPaperID(ctx context.Context, title string, year int, topK int) (string, error) {
	if topK <= 0 {
		topK = DefaultSearchLimit
	}
	params := url.Values{
		"query":  {title},
		"limit":  {strconv.Itoa(topK)},
		"fields": {"paperId,title,year,venue,externalIds"},
	}

	var resp searchResponse
	if err := c.getJSON(ctx, "/paper/search", params, &resp); err != nil {
		return "", err
	}
	if len(resp.Data) == 0 {
		return "", nil
	}

	lower := strings.ToLower(strings.TrimSpace(title))
	if year != 0 {
		for _, p := range resp.Data {
			if p.Year == year && strings.ToLower(strings.TrimSpace(p.Title)) == lower {
				return p.PaperID, nil
			}
		}
	}
	for _, p := range resp.Data {
		if strings.ToLower(strings.TrimSpace(p.Title)) == lower {
			return p.PaperID, nil
		}
	}
	return resp.Data[0].PaperID, nil
}

// Citations returns the IDs of papers citing the given paper, paging
// through the endpoint until exhausted or max IDs are collected. A max
// of zero or less means no limit.
func (c *Client) Citations(ctx context.Context, id string, max int) ([]string, error) {
	var out []string
	offset := 0

	for {
		params := url.Values{
			"limit":  {strconv.Itoa(DefaultPageSize)},
			"offset": {strconv.Itoa(offset)},
			"fields": {"citingPaper.paperId"},
		}

		var resp citationsResponse
		if err := c.getJSON(ctx, "/paper/"+url.PathEscape(id)+"/citations", params, &resp); err != nil {
			return nil, err
		}

		for _, item := range resp.Data {
			if pid := item.CitingPaper.PaperID; pid != "" {
				out = append(out, pid)
				if max > 0 && len(out) >= max {
					return out, nil
				}
			}
		}

		if resp.Next == nil {
			return out, nil
		}
		offset = *resp.Next
	}
}

// References returns the IDs of papers the given paper cites, with the
// same paging and max semantics as Citations.
func (c *Client) References(ctx context.Context, id string, max int) ([]string, error) {
	var out []string
	offset := 0

	for {
		params := url.Values{
			"limit":  {strconv.Itoa(DefaultPageSize)},
			"offset": {strconv.Itoa(offset)},
			"fields": {"citedPaper.paperId"},
		}

		var resp referencesResponse
		if err := c.getJSON(ctx, "/paper/"+url.PathEscape(id)+"/references", params, &resp); err != nil {
			return nil, err
		}

		for _, item := range resp.Data {
			if pid := item.CitedPaper.PaperID; pid != "" {
				out = append(out, pid)
				if max > 0 && len(out) >= max {
					return out, nil
				}
			}
		}

		if resp.Next == nil {
			return out, nil
		}
		offset = *resp.Next
	}
}
