package gateway

import (
	"context"
	"log/slog"

	"github.com/4613216-rgb000/smart-bid-aide/internal/core/domain"
	"github.com/4613216-rgb000/smart-bid-aide/internal/core/ports"
)

// Disabled is the extractor used when no gateway key is configured. Crawl
// runs still succeed, they just stop producing candidates.
type Disabled struct {
	logger *slog.Logger
}

func NewDisabled(logger *slog.Logger) *Disabled {
	return &Disabled{logger: logger}
}

func (d *Disabled) ExtractFromPage(ctx context.Context, markdown string, keywords []string) ([]domain.ParsedTender, error) {
	d.logger.Warn("tender extraction skipped: gateway key not configured")
	return []domain.ParsedTender{}, nil
}

func (d *Disabled) ExtractFromSearch(ctx context.Context, hits []ports.SearchHit, keywords []string) ([]domain.ParsedTender, error) {
	d.logger.Warn("tender extraction skipped: gateway key not configured")
	return []domain.ParsedTender{}, nil
}
