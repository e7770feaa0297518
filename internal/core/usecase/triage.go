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

// Placeholder for candidate fields the extractor left blank. The operator
// fills these in on the project once the tender is confirmed.
const pendingFieldPlaceholder = "待确认"

// TriageUseCase is the human review step between crawled candidates and
// tracked projects.
type TriageUseCase struct {
	tenders  ports.TenderRepository
	projects ports.ProjectRepository

	now   func() time.Time
	newID func() string
}

func NewTriageUseCase(tenders ports.TenderRepository, projects ports.ProjectRepository) *TriageUseCase {
	return &TriageUseCase{
		tenders:  tenders,
		projects: projects,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Confirm promotes a candidate into a tracked project at the start of the
// pipeline. Confirming twice is a no-op: the candidate stays confirmed and
// no duplicate project is created.
func (uc *TriageUseCase) Confirm(ctx context.Context, tenderID string) (*domain.BidProject, error) {
	tender, ok := uc.tenders.GetByID(ctx, tenderID)
	if !ok {
		return nil, domain.WrapError(domain.ErrTenderNotFound, "confirm tender", fmt.Errorf("tender %q", tenderID))
	}
	if tender.Status == domain.TenderConfirmed {
		return nil, nil
	}
	if tender.Status == domain.TenderIgnored {
		return nil, domain.WrapError(domain.ErrConflict, "confirm tender", fmt.Errorf("tender %q is ignored", tenderID))
	}

	today := domain.DateOf(uc.now())
	project := domain.BidProject{
		ID:           uc.newID(),
		Name:         tender.Title,
		Client:       orPlaceholder(tender.Client),
		Industry:     orPlaceholder(tender.Industry),
		Budget:       orPlaceholder(tender.Budget),
		Deadline:     deadlineOrToday(tender.Deadline, today),
		Status:       domain.StatusPending,
		Source:       domain.SourceCrawled,
		Requirements: tender.Requirements,
		CreatedAt:    today,
		UpdatedAt:    today,
	}
	if err := uc.projects.Save(ctx, project); err != nil {
		return nil, fmt.Errorf("confirm tender: %w", err)
	}

	tender.Status = domain.TenderConfirmed
	if err := uc.tenders.Save(ctx, tender); err != nil {
		return nil, fmt.Errorf("confirm tender: %w", err)
	}
	return &project, nil
}

// Ignore hides a candidate from the triage board. Ignored candidates are
// retained, not deleted.
func (uc *TriageUseCase) Ignore(ctx context.Context, tenderID string) error {
	tender, ok := uc.tenders.GetByID(ctx, tenderID)
	if !ok {
		return domain.WrapError(domain.ErrTenderNotFound, "ignore tender", fmt.Errorf("tender %q", tenderID))
	}
	if tender.Status == domain.TenderIgnored {
		return nil
	}

	tender.Status = domain.TenderIgnored
	if err := uc.tenders.Save(ctx, tender); err != nil {
		return fmt.Errorf("ignore tender: %w", err)
	}
	return nil
}

// Partition splits stored candidates into the two visible triage columns.
func (uc *TriageUseCase) Partition(ctx context.Context) ports.TriageBoard {
	board := ports.TriageBoard{
		New:       []domain.TenderCandidate{},
		Confirmed: []domain.TenderCandidate{},
	}
	for _, tender := range uc.tenders.GetAll(ctx) {
		switch tender.Status {
		case domain.TenderNew:
			board.New = append(board.New, tender)
		case domain.TenderConfirmed:
			board.Confirmed = append(board.Confirmed, tender)
		}
	}
	return board
}

func orPlaceholder(value string) string {
	if strings.TrimSpace(value) == "" {
		return pendingFieldPlaceholder
	}
	return value
}

// deadlineOrToday parses the free-text deadline the extractor produced;
// anything unparseable defaults to today so the project surfaces as urgent
// instead of silently sorting to the bottom.
func deadlineOrToday(raw string, today domain.Date) domain.Date {
	parsed, err := domain.ParseDate(strings.TrimSpace(raw))
	if err != nil || parsed.IsZero() {
		return today
	}
	return parsed
}
