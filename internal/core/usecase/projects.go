package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/4613216-rgb000/smart-bid-aide/internal/core/domain"
	"github.com/4613216-rgb000/smart-bid-aide/internal/core/ports"
)

// ProjectUseCase is the manual CRUD surface over tracked projects, used when
// an opportunity arrives outside the crawl pipeline.
type ProjectUseCase struct {
	projects ports.ProjectRepository

	now   func() time.Time
	newID func() string
}

func NewProjectUseCase(projects ports.ProjectRepository) *ProjectUseCase {
	return &ProjectUseCase{
		projects: projects,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (uc *ProjectUseCase) Create(ctx context.Context, project domain.BidProject) (domain.BidProject, error) {
	if strings.TrimSpace(project.Name) == "" {
		return domain.BidProject{}, domain.WrapError(domain.ErrInvalidInput, "create project", fmt.Errorf("name is required"))
	}

	today := domain.DateOf(uc.now())
	project.ID = uc.newID()
	if project.Status == "" {
		project.Status = domain.StatusPending
	}
	if !domain.ValidProjectStatus(project.Status) {
		return domain.BidProject{}, domain.WrapError(domain.ErrInvalidInput, "create project", fmt.Errorf("invalid status %q", project.Status))
	}
	if project.Source == "" {
		project.Source = domain.SourceManual
	}
	if project.Deadline.IsZero() {
		project.Deadline = today
	}
	project.CreatedAt = today
	project.UpdatedAt = today

	if err := uc.projects.Save(ctx, project); err != nil {
		return domain.BidProject{}, fmt.Errorf("create project: %w", err)
	}
	return project, nil
}

func (uc *ProjectUseCase) Update(ctx context.Context, project domain.BidProject) (domain.BidProject, error) {
	existing, ok := uc.projects.GetByID(ctx, project.ID)
	if !ok {
		return domain.BidProject{}, domain.WrapError(domain.ErrProjectNotFound, "update project", fmt.Errorf("project %q", project.ID))
	}
	if strings.TrimSpace(project.Name) == "" {
		return domain.BidProject{}, domain.WrapError(domain.ErrInvalidInput, "update project", fmt.Errorf("name is required"))
	}
	if !domain.ValidProjectStatus(project.Status) {
		return domain.BidProject{}, domain.WrapError(domain.ErrInvalidInput, "update project", fmt.Errorf("invalid status %q", project.Status))
	}

	project.Source = existing.Source
	project.CreatedAt = existing.CreatedAt
	project.UpdatedAt = domain.DateOf(uc.now())
	if err := uc.projects.Save(ctx, project); err != nil {
		return domain.BidProject{}, fmt.Errorf("update project: %w", err)
	}
	return project, nil
}

// SetStatus jumps a project straight to the given status. Unlike advancing
// through the pipeline this allows any valid status, including backwards.
func (uc *ProjectUseCase) SetStatus(ctx context.Context, projectID string, status domain.ProjectStatus) (domain.BidProject, error) {
	if !domain.ValidProjectStatus(status) {
		return domain.BidProject{}, domain.WrapError(domain.ErrInvalidInput, "set project status", fmt.Errorf("invalid status %q", status))
	}
	project, ok := uc.projects.GetByID(ctx, projectID)
	if !ok {
		return domain.BidProject{}, domain.WrapError(domain.ErrProjectNotFound, "set project status", fmt.Errorf("project %q", projectID))
	}

	if err := uc.projects.UpdateStatus(ctx, projectID, status); err != nil {
		return domain.BidProject{}, fmt.Errorf("set project status: %w", err)
	}
	project.Status = status
	project.UpdatedAt = domain.DateOf(uc.now())
	return project, nil
}
