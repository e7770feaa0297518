package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/4613216-rgb000/smart-bid-aide/internal/core/domain"
	"github.com/4613216-rgb000/smart-bid-aide/internal/core/ports"
	"github.com/4613216-rgb000/smart-bid-aide/internal/infrastructure/resilience"
)

// Client talks to the Firecrawl scrape/search API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	executor   *resilience.Executor
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRateLimit caps outbound calls per minute. Polite crawling keeps the
// provider from throttling the whole account.
func WithRateLimit(perMinute int) Option {
	return func(c *Client) {
		if perMinute > 0 {
			c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
		}
	}
}

func WithExecutor(executor *resilience.Executor) Option {
	return func(c *Client) {
		c.executor = executor
	}
}

func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Scrape fetches one page as markdown. The scheme is prepended when the
// configured URL omits it.
func (c *Client) Scrape(ctx context.Context, url string) (*ports.ScrapeResult, error) {
	if c.apiKey == "" {
		return nil, domain.WrapError(domain.ErrNotConfigured, "firecrawl scrape", errors.New("API key not configured"))
	}

	target := normalizeURL(url)
	request := map[string]any{
		"url":             target,
		"formats":         []string{"markdown", "links"},
		"onlyMainContent": true,
	}

	var response scrapeResponse
	if err := c.postJSON(ctx, "/v1/scrape", request, &response, "scrape"); err != nil {
		return nil, err
	}

	markdown, metadata, links := response.payload()
	return &ports.ScrapeResult{
		Markdown:  markdown,
		SourceURL: target,
		Metadata:  metadata,
		Links:     links,
	}, nil
}

// Search runs a web search scoped to the Chinese procurement ecosystem the
// sources publish in.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]ports.SearchHit, error) {
	if c.apiKey == "" {
		return nil, domain.WrapError(domain.ErrNotConfigured, "firecrawl search", errors.New("API key not configured"))
	}
	if limit <= 0 {
		limit = 10
	}

	request := map[string]any{
		"query":   query,
		"limit":   limit,
		"lang":    "zh-cn",
		"country": "cn",
	}

	var response searchResponse
	if err := c.postJSON(ctx, "/v1/search", request, &response, "search"); err != nil {
		return nil, err
	}

	hits := make([]ports.SearchHit, 0, len(response.Data))
	for _, row := range response.Data {
		hits = append(hits, ports.SearchHit{
			Title:       row.Title,
			URL:         row.URL,
			Markdown:    row.Markdown,
			Description: row.Description,
		})
	}
	return hits, nil
}

type scrapeResponse struct {
	Data struct {
		Markdown string         `json:"markdown"`
		Metadata map[string]any `json:"metadata"`
		Links    []string       `json:"links"`
	} `json:"data"`
	Markdown string         `json:"markdown"`
	Metadata map[string]any `json:"metadata"`
	Links    []string       `json:"links"`
}

// payload prefers the enveloped response shape and falls back to the flat
// legacy one.
func (r scrapeResponse) payload() (string, map[string]any, []string) {
	markdown := r.Data.Markdown
	if markdown == "" {
		markdown = r.Markdown
	}
	metadata := r.Data.Metadata
	if metadata == nil {
		metadata = r.Metadata
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	links := r.Data.Links
	if links == nil {
		links = r.Links
	}
	return markdown, metadata, links
}

type searchResponse struct {
	Data []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		Markdown    string `json:"markdown"`
		Description string `json:"description"`
	} `json:"data"`
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, out any, operation string) error {
	call := func(ctx context.Context) error {
		return c.doPost(ctx, path, payload, out, operation)
	}
	if c.executor != nil {
		return c.executor.Execute(ctx, "firecrawl."+operation, call, ClassifyProviderError)
	}
	return call(ctx)
}

func (c *Client) doPost(ctx context.Context, path string, payload any, out any, operation string) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", operation, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("firecrawl %s request: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return newHTTPStatusError(operation, resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}

func normalizeURL(url string) string {
	url = strings.TrimSpace(url)
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "https://" + url
	}
	return url
}
