package ports

import (
	"context"

	"github.com/4613216-rgb000/smart-bid-aide/internal/core/domain"
)

// TenderIngestor drives one external source (or one ad-hoc request) through
// scrape/search, extraction and persistence.
type TenderIngestor interface {
	CrawlConfigured(ctx context.Context, configID string) (*domain.IngestResult, error)
	ScrapeAdhoc(ctx context.Context, url string, keywords []string) (*domain.IngestResult, error)
	SearchAdhoc(ctx context.Context, query string, keywords []string, limit int) (*domain.IngestResult, error)
}

// TriageBoard partitions candidates for review; ignored ones are hidden.
type TriageBoard struct {
	New       []domain.TenderCandidate `json:"new"`
	Confirmed []domain.TenderCandidate `json:"confirmed"`
}

// TenderTriage is the human-in-the-loop review step.
type TenderTriage interface {
	Confirm(ctx context.Context, tenderID string) (*domain.BidProject, error)
	Ignore(ctx context.Context, tenderID string) error
	Partition(ctx context.Context) TriageBoard
}

// ArchiveInput captures the operator-entered outcome of a closed project.
type ArchiveInput struct {
	Scale         string            `json:"scale"`
	FinalQuote    float64           `json:"finalQuote"`
	Result        domain.CaseResult `json:"result"`
	DesignSummary string            `json:"designSummary"`
}

// ProjectPipeline advances projects through the fixed status pipeline and
// closes them out into the case archive.
type ProjectPipeline interface {
	AdvanceToNext(ctx context.Context, projectID string) (domain.BidProject, error)
	Archive(ctx context.Context, projectID string, input ArchiveInput) (domain.CaseRecord, error)
}

// ProjectDirectory is the manual CRUD surface over tracked projects.
type ProjectDirectory interface {
	Create(ctx context.Context, project domain.BidProject) (domain.BidProject, error)
	Update(ctx context.Context, project domain.BidProject) (domain.BidProject, error)
	SetStatus(ctx context.Context, projectID string, status domain.ProjectStatus) (domain.BidProject, error)
}
