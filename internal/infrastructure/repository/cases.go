package repository

import (
	"context"

	"github.com/4613216-rgb000/smart-bid-aide/internal/core/domain"
)

// CaseRepository is the append-only archive of closed project outcomes.
type CaseRepository struct {
	s slots
}

func newCaseRepository(s slots) *CaseRepository {
	return &CaseRepository{s: s}
}

func (r *CaseRepository) GetAll(ctx context.Context) []domain.CaseRecord {
	return loadList(ctx, r.s, casesSlot, []domain.CaseRecord{})
}

// Save appends. There is no upsert and no dedup; records are immutable once
// written.
func (r *CaseRepository) Save(ctx context.Context, record domain.CaseRecord) error {
	all := r.GetAll(ctx)
	all = append(all, record)
	return saveList(ctx, r.s, casesSlot, all)
}
