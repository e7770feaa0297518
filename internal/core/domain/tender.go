package domain

import (
	"strings"
	"time"
)

type TenderStatus string

const (
	TenderNew       TenderStatus = "new"
	TenderConfirmed TenderStatus = "confirmed"
	TenderIgnored   TenderStatus = "ignored"
)

// TenderCandidate is a raw tender extracted from an external source, waiting
// for triage. It only ever transitions new→confirmed or new→ignored.
type TenderCandidate struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Client       string       `json:"client"`
	Industry     string       `json:"industry"`
	Budget       string       `json:"budget"`
	Deadline     string       `json:"deadline"`
	Requirements string       `json:"requirements"`
	SourceURL    string       `json:"source_url,omitempty"`
	Status       TenderStatus `json:"status"`
	CreatedAt    Date         `json:"createdAt"`
	ConfigID     string       `json:"configId,omitempty"`
}

// CrawlConfig is a saved, reusable description of one external source to
// poll for tender announcements.
type CrawlConfig struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	URL           string     `json:"url"`
	Keywords      []string   `json:"keywords"`
	Enabled       bool       `json:"enabled"`
	LastCrawledAt *time.Time `json:"lastCrawledAt,omitempty"`
	CreatedAt     Date       `json:"createdAt"`
}

// NormalizeKeywords trims entries and drops the empty ones. Duplicates are
// kept; filtering treats the list as a set so they are inert.
func NormalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		out = append(out, kw)
	}
	return out
}
