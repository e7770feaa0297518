package firecrawl

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/4613216-rgb000/smart-bid-aide/internal/core/domain"
)

func TestScrapePrependsScheme(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/scrape" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer fc-key" {
			t.Errorf("authorization = %q", got)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"markdown": "# 招标公告",
				"metadata": map[string]any{"title": "公告"},
				"links":    []string{"https://example.cn/detail"},
			},
		})
	}))
	defer server.Close()

	client := New(server.URL, "fc-key")
	result, err := client.Scrape(context.Background(), "ggzy.example.gov.cn/notice")
	if err != nil {
		t.Fatalf("Scrape error: %v", err)
	}

	if gotBody["url"] != "https://ggzy.example.gov.cn/notice" {
		t.Fatalf("request url = %v", gotBody["url"])
	}
	if gotBody["onlyMainContent"] != true {
		t.Fatal("onlyMainContent must be set")
	}
	if result.Markdown != "# 招标公告" {
		t.Fatalf("markdown = %q", result.Markdown)
	}
	if result.SourceURL != "https://ggzy.example.gov.cn/notice" {
		t.Fatalf("sourceURL = %q", result.SourceURL)
	}
	if len(result.Links) != 1 {
		t.Fatalf("links = %v", result.Links)
	}
}

func TestScrapeFlatResponseShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"markdown": "正文"})
	}))
	defer server.Close()

	client := New(server.URL, "fc-key")
	result, err := client.Scrape(context.Background(), "https://example.cn")
	if err != nil {
		t.Fatalf("Scrape error: %v", err)
	}
	if result.Markdown != "正文" {
		t.Fatalf("markdown = %q", result.Markdown)
	}
	if result.Metadata == nil {
		t.Fatal("metadata must never be nil")
	}
}

func TestScrapeMissingKey(t *testing.T) {
	client := New("http://unused", "")
	_, err := client.Scrape(context.Background(), "https://example.cn")
	if !domain.IsKind(err, domain.ErrNotConfigured) {
		t.Fatalf("got %v, want not-configured", err)
	}
}

func TestScrapeUpstreamErrorCarriesStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Insufficient credits"})
	}))
	defer server.Close()

	client := New(server.URL, "fc-key")
	_, err := client.Scrape(context.Background(), "https://example.cn")

	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("got %v, want HTTPStatusError", err)
	}
	if statusErr.StatusCode != http.StatusPaymentRequired {
		t.Fatalf("status = %d", statusErr.StatusCode)
	}
	if statusErr.Message != "Insufficient credits" {
		t.Fatalf("message = %q", statusErr.Message)
	}
}

func TestSearchDefaults(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/search" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]string{
				{"title": "公告一", "url": "https://a", "markdown": "正文"},
				{"title": "公告二", "url": "https://b", "description": "摘要"},
			},
		})
	}))
	defer server.Close()

	client := New(server.URL, "fc-key")
	hits, err := client.Search(context.Background(), "智慧交通 招标公告", 0)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}

	if gotBody["limit"] != float64(10) {
		t.Fatalf("limit = %v, want default 10", gotBody["limit"])
	}
	if gotBody["lang"] != "zh-cn" || gotBody["country"] != "cn" {
		t.Fatalf("locale = %v/%v", gotBody["lang"], gotBody["country"])
	}
	if len(hits) != 2 || hits[1].Description != "摘要" {
		t.Fatalf("hits = %+v", hits)
	}
}

func TestClassifyProviderError(t *testing.T) {
	retryable := ClassifyProviderError(&HTTPStatusError{StatusCode: http.StatusBadGateway})
	if !retryable.Retryable || !retryable.RecordFailure {
		t.Fatalf("5xx should retry: %+v", retryable)
	}

	throttled := ClassifyProviderError(&HTTPStatusError{StatusCode: http.StatusTooManyRequests})
	if !throttled.Retryable {
		t.Fatalf("429 should retry: %+v", throttled)
	}

	clientErr := ClassifyProviderError(&HTTPStatusError{StatusCode: http.StatusPaymentRequired})
	if clientErr.Retryable || clientErr.RecordFailure {
		t.Fatalf("402 must fail fast without tripping the breaker: %+v", clientErr)
	}
}
