package bootstrap

import (
	"context"
	"time"

	"github.com/4613216-rgb000/smart-bid-aide/internal/core/domain"
	"github.com/4613216-rgb000/smart-bid-aide/internal/core/ports"
	"github.com/4613216-rgb000/smart-bid-aide/internal/observability/metrics"
)

// timedFetcher records provider call durations around the scrape/search
// client.
type timedFetcher struct {
	inner interface {
		ports.PageScraper
		ports.WebSearcher
	}
	metrics *metrics.Metrics
	service string
}

func (t *timedFetcher) Scrape(ctx context.Context, url string) (*ports.ScrapeResult, error) {
	start := time.Now()
	result, err := t.inner.Scrape(ctx, url)
	t.metrics.RecordProviderCall(t.service, "firecrawl", "scrape", time.Since(start))
	return result, err
}

func (t *timedFetcher) Search(ctx context.Context, query string, limit int) ([]ports.SearchHit, error) {
	start := time.Now()
	hits, err := t.inner.Search(ctx, query, limit)
	t.metrics.RecordProviderCall(t.service, "firecrawl", "search", time.Since(start))
	return hits, err
}

type timedExtractor struct {
	inner   ports.TenderExtractor
	metrics *metrics.Metrics
	service string
}

func (t *timedExtractor) ExtractFromPage(ctx context.Context, markdown string, keywords []string) ([]domain.ParsedTender, error) {
	start := time.Now()
	tenders, err := t.inner.ExtractFromPage(ctx, markdown, keywords)
	t.metrics.RecordProviderCall(t.service, "gateway", "extract_page", time.Since(start))
	return tenders, err
}

func (t *timedExtractor) ExtractFromSearch(ctx context.Context, hits []ports.SearchHit, keywords []string) ([]domain.ParsedTender, error) {
	start := time.Now()
	tenders, err := t.inner.ExtractFromSearch(ctx, hits, keywords)
	t.metrics.RecordProviderCall(t.service, "gateway", "extract_search", time.Since(start))
	return tenders, err
}
