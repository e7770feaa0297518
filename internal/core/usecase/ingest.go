package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/4613216-rgb000/smart-bid-aide/internal/core/domain"
	"github.com/4613216-rgb000/smart-bid-aide/internal/core/ports"
)

// IngestLimits bounds how much fetched content reaches the extractor and the
// response payload.
type IngestLimits struct {
	ScrapeSnippetChars int
	RawMarkdownChars   int
	SearchLimit        int
}

func (l IngestLimits) withDefaults() IngestLimits {
	if l.ScrapeSnippetChars <= 0 {
		l.ScrapeSnippetChars = 8000
	}
	if l.RawMarkdownChars <= 0 {
		l.RawMarkdownChars = 2000
	}
	if l.SearchLimit <= 0 {
		l.SearchLimit = 10
	}
	return l
}

// IngestUseCase runs one external source (or one ad-hoc request) through
// fetch, extraction and persistence.
type IngestUseCase struct {
	scraper   ports.PageScraper
	searcher  ports.WebSearcher
	extractor ports.TenderExtractor
	tenders   ports.TenderRepository
	configs   ports.ConfigRepository
	logger    *slog.Logger
	limits    IngestLimits

	now   func() time.Time
	newID func() string
}

func NewIngestUseCase(
	scraper ports.PageScraper,
	searcher ports.WebSearcher,
	extractor ports.TenderExtractor,
	tenders ports.TenderRepository,
	configs ports.ConfigRepository,
	logger *slog.Logger,
	limits IngestLimits,
) *IngestUseCase {
	return &IngestUseCase{
		scraper:   scraper,
		searcher:  searcher,
		extractor: extractor,
		tenders:   tenders,
		configs:   configs,
		logger:    logger,
		limits:    limits.withDefaults(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// CrawlConfigured runs one saved source through the full pipeline: scrape
// its URL, extract tenders, and fall back to exactly one web search when the
// scrape fails or yields nothing.
func (uc *IngestUseCase) CrawlConfigured(ctx context.Context, configID string) (*domain.IngestResult, error) {
	config, ok := uc.configs.GetByID(ctx, configID)
	if !ok {
		return nil, domain.WrapError(domain.ErrConfigNotFound, "crawl configured", fmt.Errorf("config %q", configID))
	}
	if !config.Enabled {
		return nil, domain.WrapError(domain.ErrInvalidInput, "crawl configured", fmt.Errorf("config %q is disabled", configID))
	}

	var (
		parsed    []domain.ParsedTender
		scraped   *ports.ScrapeResult
		scrapeErr error
	)

	scraped, scrapeErr = uc.scraper.Scrape(ctx, config.URL)
	if scrapeErr != nil {
		uc.logger.Warn("scrape failed, falling back to search",
			slog.String("config_id", config.ID),
			slog.String("url", config.URL),
			slog.String("error", scrapeErr.Error()))
	} else {
		parsed = uc.extractPage(ctx, scraped.Markdown, config.Keywords)
	}

	result := &domain.IngestResult{Path: domain.PathScrape}
	sourceFallback := config.URL
	if scraped != nil {
		result.RawMarkdown = truncate(scraped.Markdown, uc.limits.RawMarkdownChars)
		result.SourceURL = scraped.SourceURL
		result.Metadata = scraped.Metadata
		sourceFallback = scraped.SourceURL
	}

	if scrapeErr != nil || len(parsed) == 0 {
		hits, searchErr := uc.searcher.Search(ctx, buildCrawlQuery(config.Name, config.Keywords), uc.limits.SearchLimit)
		switch {
		case searchErr != nil && scrapeErr != nil:
			return nil, fmt.Errorf("crawl configured: %w", searchErr)
		case searchErr != nil:
			uc.logger.Warn("fallback search failed, keeping empty scrape outcome",
				slog.String("config_id", config.ID),
				slog.String("error", searchErr.Error()))
		default:
			parsed = uc.extractSearch(ctx, hits, config.Keywords)
			result.Path = domain.PathSearch
			result.SearchResultCount = len(hits)
		}
	}

	result.Tenders = uc.persist(ctx, parsed, sourceFallback, config.ID)

	if err := uc.configs.StampCrawled(ctx, config.ID, uc.now()); err != nil {
		uc.logger.Warn("stamp last crawled failed",
			slog.String("config_id", config.ID),
			slog.String("error", err.Error()))
	}
	return result, nil
}

// ScrapeAdhoc fetches one operator-supplied URL. No search fallback: the
// operator asked for this page specifically.
func (uc *IngestUseCase) ScrapeAdhoc(ctx context.Context, url string, keywords []string) (*domain.IngestResult, error) {
	if strings.TrimSpace(url) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "scrape adhoc", errors.New("URL is required"))
	}

	scraped, err := uc.scraper.Scrape(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("scrape adhoc: %w", err)
	}

	parsed := uc.extractPage(ctx, scraped.Markdown, keywords)
	return &domain.IngestResult{
		Path:        domain.PathScrape,
		Tenders:     uc.persist(ctx, parsed, scraped.SourceURL, ""),
		RawMarkdown: truncate(scraped.Markdown, uc.limits.RawMarkdownChars),
		SourceURL:   scraped.SourceURL,
		Metadata:    scraped.Metadata,
	}, nil
}

// SearchAdhoc runs one operator-supplied query through web search and
// extraction.
func (uc *IngestUseCase) SearchAdhoc(ctx context.Context, query string, keywords []string, limit int) (*domain.IngestResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "search adhoc", errors.New("Search query is required"))
	}
	if limit <= 0 || limit > uc.limits.SearchLimit {
		limit = uc.limits.SearchLimit
	}

	hits, err := uc.searcher.Search(ctx, strings.TrimSpace(query)+" 招标公告", limit)
	if err != nil {
		return nil, fmt.Errorf("search adhoc: %w", err)
	}

	parsed := uc.extractSearch(ctx, hits, keywords)
	return &domain.IngestResult{
		Path:              domain.PathSearch,
		Tenders:           uc.persist(ctx, parsed, "", ""),
		SearchResultCount: len(hits),
	}, nil
}

// extractPage degrades extractor failures to an empty candidate list; a
// flaky oracle must not fail the whole run.
func (uc *IngestUseCase) extractPage(ctx context.Context, markdown string, keywords []string) []domain.ParsedTender {
	parsed, err := uc.extractor.ExtractFromPage(ctx, truncate(markdown, uc.limits.ScrapeSnippetChars), keywords)
	if err != nil {
		uc.logger.Warn("page extraction failed", slog.String("error", err.Error()))
		return nil
	}
	return parsed
}

func (uc *IngestUseCase) extractSearch(ctx context.Context, hits []ports.SearchHit, keywords []string) []domain.ParsedTender {
	parsed, err := uc.extractor.ExtractFromSearch(ctx, hits, keywords)
	if err != nil {
		uc.logger.Warn("search extraction failed", slog.String("error", err.Error()))
		return nil
	}
	return parsed
}

// persist converts parsed records into stored candidates. Candidates enter
// triage as new; confirmation is always a separate human step.
func (uc *IngestUseCase) persist(ctx context.Context, parsed []domain.ParsedTender, fallbackURL, configID string) []domain.TenderCandidate {
	if len(parsed) == 0 {
		return []domain.TenderCandidate{}
	}

	today := domain.DateOf(uc.now())
	candidates := make([]domain.TenderCandidate, 0, len(parsed))
	for _, p := range parsed {
		candidates = append(candidates, domain.TenderCandidate{
			ID:           uc.newID(),
			Title:        p.Title,
			Client:       deref(p.Client),
			Industry:     deref(p.Industry),
			Budget:       deref(p.Budget),
			Deadline:     deref(p.Deadline),
			Requirements: deref(p.Requirements),
			SourceURL:    firstNonEmpty(deref(p.SourceURL), fallbackURL),
			Status:       domain.TenderNew,
			CreatedAt:    today,
			ConfigID:     configID,
		})
	}

	if err := uc.tenders.SaveBatch(ctx, candidates); err != nil {
		uc.logger.Error("persist tender candidates failed",
			slog.Int("count", len(candidates)),
			slog.String("error", err.Error()))
	}
	return candidates
}

func buildCrawlQuery(name string, keywords []string) string {
	parts := []string{strings.TrimSpace(name), "招标公告"}
	if len(keywords) > 0 {
		parts = append(parts, strings.Join(keywords, " "))
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func truncate(s string, limit int) string {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
