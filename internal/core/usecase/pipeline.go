package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/4613216-rgb000/smart-bid-aide/internal/core/domain"
	"github.com/4613216-rgb000/smart-bid-aide/internal/core/ports"
)

// PipelineUseCase moves projects through the fixed status order and closes
// them out into the case archive.
type PipelineUseCase struct {
	projects ports.ProjectRepository
	cases    ports.CaseRepository

	now   func() time.Time
	newID func() string
}

func NewPipelineUseCase(projects ports.ProjectRepository, cases ports.CaseRepository) *PipelineUseCase {
	return &PipelineUseCase{
		projects: projects,
		cases:    cases,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// AdvanceToNext moves a project one step forward. At submitted there is no
// next step: the project is returned unchanged and no error is raised.
func (uc *PipelineUseCase) AdvanceToNext(ctx context.Context, projectID string) (domain.BidProject, error) {
	project, ok := uc.projects.GetByID(ctx, projectID)
	if !ok {
		return domain.BidProject{}, domain.WrapError(domain.ErrProjectNotFound, "advance project", fmt.Errorf("project %q", projectID))
	}
	if project.Status == domain.StatusArchived {
		return domain.BidProject{}, domain.WrapError(domain.ErrConflict, "advance project", fmt.Errorf("project %q is archived", projectID))
	}

	next, ok := domain.NextStatus(project.Status)
	if !ok {
		return project, nil
	}

	if err := uc.projects.UpdateStatus(ctx, projectID, next); err != nil {
		return domain.BidProject{}, fmt.Errorf("advance project: %w", err)
	}
	project.Status = next
	project.UpdatedAt = domain.DateOf(uc.now())
	return project, nil
}

// Archive closes a submitted project: it records the outcome as an immutable
// case and moves the project to the terminal archived status.
func (uc *PipelineUseCase) Archive(ctx context.Context, projectID string, input ports.ArchiveInput) (domain.CaseRecord, error) {
	project, ok := uc.projects.GetByID(ctx, projectID)
	if !ok {
		return domain.CaseRecord{}, domain.WrapError(domain.ErrProjectNotFound, "archive project", fmt.Errorf("project %q", projectID))
	}
	if project.Status != domain.StatusSubmitted {
		return domain.CaseRecord{}, domain.WrapError(domain.ErrConflict, "archive project",
			fmt.Errorf("project %q has status %q, want %q", projectID, project.Status, domain.StatusSubmitted))
	}

	result := input.Result
	if result == "" {
		result = domain.CaseUnknown
	}
	if !domain.ValidCaseResult(result) {
		return domain.CaseRecord{}, domain.WrapError(domain.ErrInvalidInput, "archive project", fmt.Errorf("invalid result %q", input.Result))
	}

	record := domain.CaseRecord{
		ID:            uc.newID(),
		ProjectID:     project.ID,
		Name:          project.Name,
		Industry:      project.Industry,
		Scale:         input.Scale,
		FinalQuote:    input.FinalQuote,
		Result:        result,
		DesignSummary: input.DesignSummary,
		ArchivedAt:    domain.DateOf(uc.now()),
	}
	if err := uc.cases.Save(ctx, record); err != nil {
		return domain.CaseRecord{}, fmt.Errorf("archive project: %w", err)
	}
	if err := uc.projects.UpdateStatus(ctx, projectID, domain.StatusArchived); err != nil {
		return domain.CaseRecord{}, fmt.Errorf("archive project: %w", err)
	}
	return record, nil
}
