package domain

// ParsedTender is one record emitted by the summarization oracle. Fields the
// oracle could not determine arrive as null.
type ParsedTender struct {
	Title        string  `json:"title"`
	Client       *string `json:"client"`
	Industry     *string `json:"industry"`
	Budget       *string `json:"budget"`
	Deadline     *string `json:"deadline"`
	Requirements *string `json:"requirements"`
	SourceURL    *string `json:"source_url,omitempty"`
}

type IngestPath string

const (
	PathScrape IngestPath = "scrape"
	PathSearch IngestPath = "search"
)

// IngestResult is the success outcome of one ingestion run. Zero extracted
// tenders is still a success, not a failure.
type IngestResult struct {
	Path              IngestPath        `json:"path"`
	Tenders           []TenderCandidate `json:"tenders"`
	RawMarkdown       string            `json:"rawMarkdown,omitempty"`
	SourceURL         string            `json:"sourceUrl,omitempty"`
	Metadata          map[string]any    `json:"metadata,omitempty"`
	SearchResultCount int               `json:"searchResultCount,omitempty"`
}
