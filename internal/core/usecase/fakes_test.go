package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/4613216-rgb000/smart-bid-aide/internal/core/domain"
	"github.com/4613216-rgb000/smart-bid-aide/internal/core/ports"
)

var errInvalidStatus = errors.New("unknown status")

type fakeProjectRepo struct {
	projects []domain.BidProject
	saveErr  error
}

func (f *fakeProjectRepo) GetAll(context.Context) []domain.BidProject {
	return append([]domain.BidProject(nil), f.projects...)
}

func (f *fakeProjectRepo) GetByID(_ context.Context, id string) (domain.BidProject, bool) {
	for _, p := range f.projects {
		if p.ID == id {
			return p, true
		}
	}
	return domain.BidProject{}, false
}

func (f *fakeProjectRepo) Save(_ context.Context, project domain.BidProject) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	for i, p := range f.projects {
		if p.ID == project.ID {
			f.projects[i] = project
			return nil
		}
	}
	f.projects = append(f.projects, project)
	return nil
}

func (f *fakeProjectRepo) UpdateStatus(ctx context.Context, id string, status domain.ProjectStatus) error {
	if !domain.ValidProjectStatus(status) {
		return domain.WrapError(domain.ErrInvalidInput, "update project status", errInvalidStatus)
	}
	for i, p := range f.projects {
		if p.ID == id {
			f.projects[i].Status = status
			return nil
		}
	}
	return nil
}

func (f *fakeProjectRepo) GetByStatus(_ context.Context, status domain.ProjectStatus) []domain.BidProject {
	out := make([]domain.BidProject, 0)
	for _, p := range f.projects {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out
}

func (f *fakeProjectRepo) GetUpcoming(context.Context, int) []domain.BidProject {
	return nil
}

type fakeCaseRepo struct {
	records []domain.CaseRecord
	saveErr error
}

func (f *fakeCaseRepo) GetAll(context.Context) []domain.CaseRecord {
	return append([]domain.CaseRecord(nil), f.records...)
}

func (f *fakeCaseRepo) Save(_ context.Context, record domain.CaseRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.records = append(f.records, record)
	return nil
}

type fakeTenderRepo struct {
	tenders []domain.TenderCandidate
	batches [][]domain.TenderCandidate
	saveErr error
}

func (f *fakeTenderRepo) GetAll(context.Context) []domain.TenderCandidate {
	return append([]domain.TenderCandidate(nil), f.tenders...)
}

func (f *fakeTenderRepo) GetByID(_ context.Context, id string) (domain.TenderCandidate, bool) {
	for _, t := range f.tenders {
		if t.ID == id {
			return t, true
		}
	}
	return domain.TenderCandidate{}, false
}

func (f *fakeTenderRepo) Save(_ context.Context, tender domain.TenderCandidate) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	for i, t := range f.tenders {
		if t.ID == tender.ID {
			f.tenders[i] = tender
			return nil
		}
	}
	f.tenders = append(f.tenders, tender)
	return nil
}

func (f *fakeTenderRepo) SaveBatch(_ context.Context, tenders []domain.TenderCandidate) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if len(tenders) == 0 {
		return nil
	}
	f.batches = append(f.batches, tenders)
	f.tenders = append(f.tenders, tenders...)
	return nil
}

type fakeConfigRepo struct {
	configs   []domain.CrawlConfig
	stampedID string
	stampedAt time.Time
}

func (f *fakeConfigRepo) GetAll(context.Context) []domain.CrawlConfig {
	return append([]domain.CrawlConfig(nil), f.configs...)
}

func (f *fakeConfigRepo) GetByID(_ context.Context, id string) (domain.CrawlConfig, bool) {
	for _, c := range f.configs {
		if c.ID == id {
			return c, true
		}
	}
	return domain.CrawlConfig{}, false
}

func (f *fakeConfigRepo) Save(_ context.Context, config domain.CrawlConfig) error {
	f.configs = append(f.configs, config)
	return nil
}

func (f *fakeConfigRepo) Delete(context.Context, string) error { return nil }

func (f *fakeConfigRepo) StampCrawled(_ context.Context, id string, when time.Time) error {
	f.stampedID = id
	f.stampedAt = when
	return nil
}

type fakeScraper struct {
	result *ports.ScrapeResult
	err    error
	calls  int
	gotURL string
}

func (f *fakeScraper) Scrape(_ context.Context, url string) (*ports.ScrapeResult, error) {
	f.calls++
	f.gotURL = url
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeSearcher struct {
	hits     []ports.SearchHit
	err      error
	calls    int
	gotQuery string
	gotLimit int
}

func (f *fakeSearcher) Search(_ context.Context, query string, limit int) ([]ports.SearchHit, error) {
	f.calls++
	f.gotQuery = query
	f.gotLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.hits, nil
}

type fakeExtractor struct {
	pageTenders   []domain.ParsedTender
	pageErr       error
	searchTenders []domain.ParsedTender
	searchErr     error

	pageCalls   int
	searchCalls int
	gotMarkdown string
}

func (f *fakeExtractor) ExtractFromPage(_ context.Context, markdown string, _ []string) ([]domain.ParsedTender, error) {
	f.pageCalls++
	f.gotMarkdown = markdown
	return f.pageTenders, f.pageErr
}

func (f *fakeExtractor) ExtractFromSearch(_ context.Context, _ []ports.SearchHit, _ []string) ([]domain.ParsedTender, error) {
	f.searchCalls++
	return f.searchTenders, f.searchErr
}
