package repository

import (
	"context"
	"time"

	"github.com/4613216-rgb000/smart-bid-aide/internal/core/domain"
)

// ConfigRepository owns crawl source configurations.
type ConfigRepository struct {
	s   slots
	now func() time.Time
}

func newConfigRepository(s slots) *ConfigRepository {
	return &ConfigRepository{s: s, now: time.Now}
}

func (r *ConfigRepository) GetAll(ctx context.Context) []domain.CrawlConfig {
	return loadList(ctx, r.s, configsSlot, []domain.CrawlConfig{})
}

func (r *ConfigRepository) GetByID(ctx context.Context, id string) (domain.CrawlConfig, bool) {
	for _, c := range r.GetAll(ctx) {
		if c.ID == id {
			return c, true
		}
	}
	return domain.CrawlConfig{}, false
}

// Save upserts by id. Keywords are normalized on the way in; CreatedAt is
// stamped for new configs.
func (r *ConfigRepository) Save(ctx context.Context, config domain.CrawlConfig) error {
	config.Keywords = domain.NormalizeKeywords(config.Keywords)
	if config.CreatedAt.IsZero() {
		config.CreatedAt = domain.DateOf(r.now())
	}

	all := r.GetAll(ctx)
	replaced := false
	for i, c := range all {
		if c.ID == config.ID {
			all[i] = config
			replaced = true
			break
		}
	}
	if !replaced {
		all = append(all, config)
	}
	return saveList(ctx, r.s, configsSlot, all)
}

func (r *ConfigRepository) Delete(ctx context.Context, id string) error {
	all := r.GetAll(ctx)
	out := make([]domain.CrawlConfig, 0, len(all))
	for _, c := range all {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return saveList(ctx, r.s, configsSlot, out)
}

// StampCrawled records when a source was last harvested. Missing ids are a
// no-op, mirroring UpdateStatus on projects.
func (r *ConfigRepository) StampCrawled(ctx context.Context, id string, when time.Time) error {
	config, ok := r.GetByID(ctx, id)
	if !ok {
		return nil
	}
	when = when.UTC()
	config.LastCrawledAt = &when
	return r.Save(ctx, config)
}
