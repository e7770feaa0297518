package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/4613216-rgb000/smart-bid-aide/internal/core/domain"
	"github.com/4613216-rgb000/smart-bid-aide/internal/infrastructure/slotstore/memory"
)

func newTestRepos(t *testing.T, opts ...Option) (*Repositories, *memory.SlotStore) {
	t.Helper()
	store := memory.New()
	return New(store, nil, opts...), store
}

func TestProjectsFallBackToDemoSet(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()

	projects := repos.Projects.GetAll(ctx)
	require.Len(t, projects, 5)
	for i, want := range []string{"1", "2", "3", "4", "5"} {
		require.Equal(t, want, projects[i].ID)
	}
	require.Equal(t, domain.StatusDesigning, projects[0].Status)
}

func TestProjectsCorruptSlotFallsBack(t *testing.T) {
	corrupted := ""
	repos, store := newTestRepos(t, WithCorruptionHook(func(slot string) { corrupted = slot }))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, projectsSlot, []byte("{not json")))

	projects := repos.Projects.GetAll(ctx)
	require.Len(t, projects, 5, "corrupt payload must degrade to the demo set")
	require.Equal(t, projectsSlot, corrupted)
}

func TestProjectSaveUpserts(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()

	project := domain.BidProject{ID: "p-1", Name: "数据中心机房改造", Status: domain.StatusPending}
	require.NoError(t, repos.Projects.Save(ctx, project))

	// First save materializes the demo set plus the new record.
	require.Len(t, repos.Projects.GetAll(ctx), 6)

	project.Name = "数据中心机房改造（二期）"
	require.NoError(t, repos.Projects.Save(ctx, project))

	all := repos.Projects.GetAll(ctx)
	require.Len(t, all, 6)
	got, ok := repos.Projects.GetByID(ctx, "p-1")
	require.True(t, ok)
	require.Equal(t, "数据中心机房改造（二期）", got.Name)
	require.Equal(t, all[5].ID, "p-1", "upsert must keep stored order")
}

func TestUpdateStatus(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()
	repos.Projects.now = func() time.Time { return time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC) }

	require.NoError(t, repos.Projects.UpdateStatus(ctx, "1", domain.StatusQuoting))
	got, ok := repos.Projects.GetByID(ctx, "1")
	require.True(t, ok)
	require.Equal(t, domain.StatusQuoting, got.Status)
	require.Equal(t, "2026-08-31", got.UpdatedAt.String())

	err := repos.Projects.UpdateStatus(ctx, "1", "half-done")
	require.Error(t, err)
	require.True(t, domain.IsKind(err, domain.ErrInvalidInput))

	// Unknown ids are a silent no-op.
	require.NoError(t, repos.Projects.UpdateStatus(ctx, "no-such-id", domain.StatusPending))
}

func TestGetUpcomingExcludesClosedStatuses(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()
	now := time.Date(2026, 2, 20, 8, 0, 0, 0, time.UTC)
	repos.Projects.now = func() time.Time { return now }

	mk := func(id string, status domain.ProjectStatus, deadline string) domain.BidProject {
		d, err := domain.ParseDate(deadline)
		require.NoError(t, err)
		return domain.BidProject{ID: id, Name: id, Status: status, Deadline: d}
	}
	for _, p := range []domain.BidProject{
		mk("open-soon", domain.StatusDesigning, "2026-02-25"),
		mk("open-late", domain.StatusPending, "2026-04-01"),
		mk("submitted", domain.StatusSubmitted, "2026-02-21"),
		mk("archived", domain.StatusArchived, "2026-02-21"),
	} {
		require.NoError(t, repos.Projects.Save(ctx, p))
	}

	ids := make([]string, 0)
	for _, p := range repos.Projects.GetUpcoming(ctx, 7) {
		ids = append(ids, p.ID)
	}
	require.NotContains(t, ids, "submitted")
	require.NotContains(t, ids, "archived")
	require.NotContains(t, ids, "open-late")
	require.Contains(t, ids, "open-soon")
}

func TestCasesAppendOnly(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()

	require.Empty(t, repos.Cases.GetAll(ctx))

	first := domain.CaseRecord{ID: "c-1", ProjectID: "1", Result: domain.CaseWon}
	second := domain.CaseRecord{ID: "c-1", ProjectID: "1", Result: domain.CaseLost}
	require.NoError(t, repos.Cases.Save(ctx, first))
	require.NoError(t, repos.Cases.Save(ctx, second))

	// Same id twice still appends; the archive never rewrites history.
	require.Len(t, repos.Cases.GetAll(ctx), 2)
}

func TestTenderSaveBatch(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.Tenders.SaveBatch(ctx, nil))
	require.Empty(t, repos.Tenders.GetAll(ctx))

	batch := []domain.TenderCandidate{
		{ID: "t-1", Title: "某医院信息化招标", Status: domain.TenderNew},
		{ID: "t-2", Title: "某学校智慧校园招标", Status: domain.TenderNew},
	}
	require.NoError(t, repos.Tenders.SaveBatch(ctx, batch))
	require.Len(t, repos.Tenders.GetAll(ctx), 2)

	got, ok := repos.Tenders.GetByID(ctx, "t-2")
	require.True(t, ok)
	require.Equal(t, "某学校智慧校园招标", got.Title)
}

func TestConfigSaveNormalizesAndStamps(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()
	repos.Configs.now = func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) }

	require.NoError(t, repos.Configs.Save(ctx, domain.CrawlConfig{
		ID:       "cfg-1",
		Name:     "省公共资源交易中心",
		URL:      "ggzy.example.gov.cn",
		Keywords: []string{" 智慧交通 ", "", "监控"},
		Enabled:  true,
	}))

	got, ok := repos.Configs.GetByID(ctx, "cfg-1")
	require.True(t, ok)
	require.Equal(t, []string{"智慧交通", "监控"}, got.Keywords)
	require.Equal(t, "2026-08-31", got.CreatedAt.String())
	require.Nil(t, got.LastCrawledAt)

	when := time.Date(2026, 8, 31, 13, 30, 0, 0, time.UTC)
	require.NoError(t, repos.Configs.StampCrawled(ctx, "cfg-1", when))
	got, _ = repos.Configs.GetByID(ctx, "cfg-1")
	require.NotNil(t, got.LastCrawledAt)
	require.Equal(t, when, *got.LastCrawledAt)

	require.NoError(t, repos.Configs.StampCrawled(ctx, "missing", when))

	require.NoError(t, repos.Configs.Delete(ctx, "cfg-1"))
	_, ok = repos.Configs.GetByID(ctx, "cfg-1")
	require.False(t, ok)
}
