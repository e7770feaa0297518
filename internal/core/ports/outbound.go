package ports

import (
	"context"
	"time"

	"github.com/4613216-rgb000/smart-bid-aide/internal/core/domain"
)

// SlotStore persists whole JSON documents under named slots. Save overwrites
// the slot atomically from the caller's perspective; last write wins.
type SlotStore interface {
	Load(ctx context.Context, key string) (payload []byte, found bool, err error)
	Save(ctx context.Context, key string, payload []byte) error
}

// ProjectRepository owns BidProject records. Reads never fail: absent or
// unreadable state degrades to the seeded fallback set.
type ProjectRepository interface {
	GetAll(ctx context.Context) []domain.BidProject
	GetByID(ctx context.Context, id string) (domain.BidProject, bool)
	Save(ctx context.Context, project domain.BidProject) error
	UpdateStatus(ctx context.Context, id string, status domain.ProjectStatus) error
	GetByStatus(ctx context.Context, status domain.ProjectStatus) []domain.BidProject
	GetUpcoming(ctx context.Context, days int) []domain.BidProject
}

// CaseRepository owns archived case outcomes. Append-only.
type CaseRepository interface {
	GetAll(ctx context.Context) []domain.CaseRecord
	Save(ctx context.Context, record domain.CaseRecord) error
}

// TenderRepository owns ingested tender candidates.
type TenderRepository interface {
	GetAll(ctx context.Context) []domain.TenderCandidate
	GetByID(ctx context.Context, id string) (domain.TenderCandidate, bool)
	Save(ctx context.Context, tender domain.TenderCandidate) error
	SaveBatch(ctx context.Context, tenders []domain.TenderCandidate) error
}

// ConfigRepository owns crawl source configurations.
type ConfigRepository interface {
	GetAll(ctx context.Context) []domain.CrawlConfig
	GetByID(ctx context.Context, id string) (domain.CrawlConfig, bool)
	Save(ctx context.Context, config domain.CrawlConfig) error
	Delete(ctx context.Context, id string) error
	StampCrawled(ctx context.Context, id string, when time.Time) error
}

// ScrapeResult is the raw outcome of one page scrape.
type ScrapeResult struct {
	Markdown  string
	SourceURL string
	Metadata  map[string]any
	Links     []string
}

// SearchHit is one result row from the web search provider.
type SearchHit struct {
	Title       string
	URL         string
	Markdown    string
	Description string
}

// PageScraper fetches one page as markdown.
type PageScraper interface {
	Scrape(ctx context.Context, url string) (*ScrapeResult, error)
}

// WebSearcher runs a web search and returns result snippets.
type WebSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]SearchHit, error)
}

// TenderExtractor turns fetched content into structured tender records via
// the summarization oracle.
type TenderExtractor interface {
	ExtractFromPage(ctx context.Context, markdown string, keywords []string) ([]domain.ParsedTender, error)
	ExtractFromSearch(ctx context.Context, hits []SearchHit, keywords []string) ([]domain.ParsedTender, error)
}

// CrawlQueue carries crawl-requested events from the API to the worker.
type CrawlQueue interface {
	PublishCrawlRequested(ctx context.Context, configID string) error
	SubscribeCrawlRequested(ctx context.Context, handler func(context.Context, string) error) error
}
