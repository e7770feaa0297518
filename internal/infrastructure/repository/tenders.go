package repository

import (
	"context"

	"github.com/4613216-rgb000/smart-bid-aide/internal/core/domain"
)

// TenderRepository owns ingested tender candidates awaiting triage.
type TenderRepository struct {
	s slots
}

func newTenderRepository(s slots) *TenderRepository {
	return &TenderRepository{s: s}
}

func (r *TenderRepository) GetAll(ctx context.Context) []domain.TenderCandidate {
	return loadList(ctx, r.s, tendersSlot, []domain.TenderCandidate{})
}

func (r *TenderRepository) GetByID(ctx context.Context, id string) (domain.TenderCandidate, bool) {
	for _, t := range r.GetAll(ctx) {
		if t.ID == id {
			return t, true
		}
	}
	return domain.TenderCandidate{}, false
}

func (r *TenderRepository) Save(ctx context.Context, tender domain.TenderCandidate) error {
	all := r.GetAll(ctx)
	replaced := false
	for i, t := range all {
		if t.ID == tender.ID {
			all[i] = tender
			replaced = true
			break
		}
	}
	if !replaced {
		all = append(all, tender)
	}
	return saveList(ctx, r.s, tendersSlot, all)
}

// SaveBatch appends all candidates from one ingestion run in a single slot
// write.
func (r *TenderRepository) SaveBatch(ctx context.Context, tenders []domain.TenderCandidate) error {
	if len(tenders) == 0 {
		return nil
	}
	all := r.GetAll(ctx)
	all = append(all, tenders...)
	return saveList(ctx, r.s, tendersSlot, all)
}
