package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/4613216-rgb000/smart-bid-aide/internal/core/domain"
	"github.com/4613216-rgb000/smart-bid-aide/internal/core/ports"
	"github.com/4613216-rgb000/smart-bid-aide/internal/infrastructure/resilience"
)

const (
	defaultPerHitChars    = 2000
	defaultAggregateChars = 12000
)

// Client extracts tender candidates from crawled text through an
// OpenAI-compatible chat completions gateway.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
	executor   *resilience.Executor

	perHitChars    int
	aggregateChars int

	onParseFailure func()
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithExecutor(executor *resilience.Executor) Option {
	return func(c *Client) {
		c.executor = executor
	}
}

func WithSnippetLimits(perHit, aggregate int) Option {
	return func(c *Client) {
		if perHit > 0 {
			c.perHitChars = perHit
		}
		if aggregate > 0 {
			c.aggregateChars = aggregate
		}
	}
}

// WithParseFailureHook registers a callback fired whenever a model reply
// cannot be decoded into tender candidates.
func WithParseFailureHook(hook func()) Option {
	return func(c *Client) {
		c.onParseFailure = hook
	}
}

func New(baseURL, apiKey, model string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		apiKey:         apiKey,
		model:          model,
		httpClient:     &http.Client{Timeout: 180 * time.Second},
		logger:         logger,
		perHitChars:    defaultPerHitChars,
		aggregateChars: defaultAggregateChars,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

const pageSystemPrompt = `你是一个招标信息提取助手。从提供的网页内容中提取招标项目信息。
返回一个JSON数组，每个元素包含以下字段：
- title: 招标项目名称（必填）
- client: 招标单位
- industry: 所属行业
- budget: 预算金额
- deadline: 投标截止日期（格式 YYYY-MM-DD）
- requirements: 主要技术或资质要求摘要
只提取与给定关键词相关的招标公告。没有匹配项时返回空数组 []。只输出JSON数组，不要其他文字。`

const searchSystemPrompt = `你是一个招标信息提取助手。从提供的搜索结果中提取招标项目信息。
返回一个JSON数组，每个元素包含以下字段：
- title: 招标项目名称（必填）
- client: 招标单位
- industry: 所属行业
- budget: 预算金额
- deadline: 投标截止日期（格式 YYYY-MM-DD）
- requirements: 主要技术或资质要求摘要
- source_url: 该招标信息所在搜索结果的URL
同一个招标项目出现在多条结果中时只保留一条。只提取与给定关键词相关的招标公告。
没有匹配项时返回空数组 []。只输出JSON数组，不要其他文字。`

// ExtractFromPage pulls tender candidates out of scraped page markdown.
func (c *Client) ExtractFromPage(ctx context.Context, markdown string, keywords []string) ([]domain.ParsedTender, error) {
	user := fmt.Sprintf("关键词：%s\n\n网页内容：\n%s", strings.Join(keywords, "、"), markdown)
	return c.extract(ctx, pageSystemPrompt, user)
}

// ExtractFromSearch pulls tender candidates out of aggregated search hits.
func (c *Client) ExtractFromSearch(ctx context.Context, hits []ports.SearchHit, keywords []string) ([]domain.ParsedTender, error) {
	user := fmt.Sprintf("关键词：%s\n\n搜索结果：\n%s", strings.Join(keywords, "、"), c.formatHits(hits))
	return c.extract(ctx, searchSystemPrompt, user)
}

// formatHits renders search hits as delimited snippets, capping each hit and
// the aggregate so the prompt stays inside the model context window.
func (c *Client) formatHits(hits []ports.SearchHit) string {
	var b strings.Builder
	for i, hit := range hits {
		if b.Len() >= c.aggregateChars {
			break
		}
		body := hit.Markdown
		if body == "" {
			body = hit.Description
		}
		body = truncate(body, c.perHitChars)
		fmt.Fprintf(&b, "--- 结果%d: %s (%s) ---\n%s\n\n", i+1, hit.Title, hit.URL, body)
	}
	return truncate(b.String(), c.aggregateChars)
}

func truncate(s string, limit int) string {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}

func (c *Client) extract(ctx context.Context, systemPrompt, userPrompt string) ([]domain.ParsedTender, error) {
	request := chatRequest{
		Model:       c.model,
		Temperature: 0.1,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}

	var content string
	call := func(ctx context.Context) error {
		var err error
		content, err = c.complete(ctx, request)
		return err
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "gateway.chat", call, classifyGatewayError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, err
	}

	tenders, ok := ParseTenderArray(content)
	if !ok {
		c.logger.Warn("model reply did not contain a tender array",
			slog.Int("reply_chars", len(content)))
		if c.onParseFailure != nil {
			c.onParseFailure()
		}
		return []domain.ParsedTender{}, nil
	}
	return tenders, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) complete(ctx context.Context, request chatRequest) (string, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gateway chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", &GatewayStatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("gateway chat: empty choices")
	}
	return decoded.Choices[0].Message.Content, nil
}

type GatewayStatusError struct {
	StatusCode int
	Body       string
}

func (e *GatewayStatusError) Error() string {
	return fmt.Sprintf("gateway chat: status %d: %s", e.StatusCode, e.Body)
}

func classifyGatewayError(err error) resilience.Classification {
	var statusErr *GatewayStatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusTooManyRequests, statusErr.StatusCode >= 500:
			return resilience.Classification{Retryable: true, RecordFailure: true}
		default:
			return resilience.Classification{Retryable: false, RecordFailure: false}
		}
	}
	return resilience.Classification{Retryable: true, RecordFailure: true}
}
