package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/4613216-rgb000/smart-bid-aide/internal/core/domain"
)

// ProjectRepository is the exclusive owner of BidProject records. The whole
// list lives in one slot and is read and written wholesale on each access.
type ProjectRepository struct {
	s   slots
	now func() time.Time
}

func newProjectRepository(s slots) *ProjectRepository {
	return &ProjectRepository{s: s, now: time.Now}
}

// GetAll returns all projects in stored order. A fresh or unreadable slot
// yields the seeded demo set.
func (r *ProjectRepository) GetAll(ctx context.Context) []domain.BidProject {
	return loadList(ctx, r.s, projectsSlot, demoProjects())
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (domain.BidProject, bool) {
	for _, p := range r.GetAll(ctx) {
		if p.ID == id {
			return p, true
		}
	}
	return domain.BidProject{}, false
}

// Save upserts by id, preserving the relative order of unrelated records.
func (r *ProjectRepository) Save(ctx context.Context, project domain.BidProject) error {
	all := r.GetAll(ctx)
	replaced := false
	for i, p := range all {
		if p.ID == project.ID {
			all[i] = project
			replaced = true
			break
		}
	}
	if !replaced {
		all = append(all, project)
	}
	return saveList(ctx, r.s, projectsSlot, all)
}

// UpdateStatus sets the status and stamps updatedAt. A missing id is a
// silent no-op; the forward-only pipeline rule is enforced upstream by the
// transition engine, not here.
func (r *ProjectRepository) UpdateStatus(ctx context.Context, id string, status domain.ProjectStatus) error {
	if !domain.ValidProjectStatus(status) {
		return domain.WrapError(domain.ErrInvalidInput, "update project status", fmt.Errorf("unknown status %q", status))
	}

	project, ok := r.GetByID(ctx, id)
	if !ok {
		return nil
	}
	project.Status = status
	project.UpdatedAt = domain.DateOf(r.now())
	return r.Save(ctx, project)
}

func (r *ProjectRepository) GetByStatus(ctx context.Context, status domain.ProjectStatus) []domain.BidProject {
	out := make([]domain.BidProject, 0)
	for _, p := range r.GetAll(ctx) {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out
}

// GetUpcoming returns open projects whose deadline falls within the next
// `days` days. Submitted and archived projects are excluded for any
// deadline. Stored order is kept; callers sort by urgency themselves.
func (r *ProjectRepository) GetUpcoming(ctx context.Context, days int) []domain.BidProject {
	cutoff := r.now().AddDate(0, 0, days)

	out := make([]domain.BidProject, 0)
	for _, p := range r.GetAll(ctx) {
		if p.Status == domain.StatusSubmitted || p.Status == domain.StatusArchived {
			continue
		}
		if !p.Deadline.Time().After(cutoff) {
			out = append(out, p)
		}
	}
	return out
}
