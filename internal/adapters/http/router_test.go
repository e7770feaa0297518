package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/4613216-rgb000/smart-bid-aide/internal/core/domain"
	"github.com/4613216-rgb000/smart-bid-aide/internal/core/usecase"
	"github.com/4613216-rgb000/smart-bid-aide/internal/infrastructure/repository"
	"github.com/4613216-rgb000/smart-bid-aide/internal/infrastructure/slotstore/memory"
)

type stubIngestor struct {
	result    *domain.IngestResult
	err       error
	crawledID string
}

func (s *stubIngestor) CrawlConfigured(_ context.Context, configID string) (*domain.IngestResult, error) {
	s.crawledID = configID
	return s.result, s.err
}

func (s *stubIngestor) ScrapeAdhoc(_ context.Context, url string, _ []string) (*domain.IngestResult, error) {
	if strings.TrimSpace(url) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "scrape adhoc", errors.New("URL is required"))
	}
	return s.result, s.err
}

func (s *stubIngestor) SearchAdhoc(_ context.Context, query string, _ []string, _ int) (*domain.IngestResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "search adhoc", errors.New("Search query is required"))
	}
	return s.result, s.err
}

func newTestRouter(t *testing.T, ingestor *stubIngestor) (*Router, *repository.Repositories) {
	t.Helper()
	repos := repository.New(memory.New(), nil)
	router := NewRouter(RouterOptions{
		Ingest:    ingestor,
		Triage:    usecase.NewTriageUseCase(repos.Tenders, repos.Projects),
		Pipeline:  usecase.NewPipelineUseCase(repos.Projects, repos.Cases),
		Directory: usecase.NewProjectUseCase(repos.Projects),
		Projects:  repos.Projects,
		Tenders:   repos.Tenders,
		Cases:     repos.Cases,
		Configs:   repos.Configs,
	})
	return router, repos
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	decoded := map[string]any{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, decoded
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t, &stubIngestor{})
	rec, body := doJSON(t, router.Handler(), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("healthz: %d %v", rec.Code, body)
	}
}

func TestScrapeRequiresURL(t *testing.T) {
	router, _ := newTestRouter(t, &stubIngestor{})
	rec, body := doJSON(t, router.Handler(), http.MethodPost, "/v1/scrape", "{}")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body["success"] != false {
		t.Fatalf("success = %v", body["success"])
	}
	if body["error"] != "URL is required" {
		t.Fatalf("error = %q, want URL is required", body["error"])
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	router, _ := newTestRouter(t, &stubIngestor{})
	rec, body := doJSON(t, router.Handler(), http.MethodPost, "/v1/search", `{"query":"  "}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body["error"] != "Search query is required" {
		t.Fatalf("error = %q", body["error"])
	}
}

func TestScrapeSuccessEnvelope(t *testing.T) {
	router, _ := newTestRouter(t, &stubIngestor{result: &domain.IngestResult{
		Path:        domain.PathScrape,
		Tenders:     []domain.TenderCandidate{},
		RawMarkdown: "# 公告",
		SourceURL:   "https://example.cn",
	}})
	rec, body := doJSON(t, router.Handler(), http.MethodPost, "/v1/scrape", `{"url":"https://example.cn"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["success"] != true || body["path"] != "scrape" || body["rawMarkdown"] != "# 公告" {
		t.Fatalf("body = %v", body)
	}
}

func TestProjectListIncludesComputedFields(t *testing.T) {
	router, _ := newTestRouter(t, &stubIngestor{})
	rec, body := doJSON(t, router.Handler(), http.MethodGet, "/v1/projects", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	projects, ok := body["projects"].([]any)
	if !ok || len(projects) != 5 {
		t.Fatalf("expected 5 seeded projects, got %v", body["projects"])
	}
	first := projects[0].(map[string]any)
	for _, field := range []string{"progress", "daysLeft", "urgency", "status", "deadline"} {
		if _, ok := first[field]; !ok {
			t.Fatalf("project view missing %q: %v", field, first)
		}
	}
}

func TestConfirmTenderOverHTTP(t *testing.T) {
	router, repos := newTestRouter(t, &stubIngestor{})
	ctx := context.Background()
	if err := repos.Tenders.Save(ctx, domain.TenderCandidate{
		ID: "t-1", Title: "数据中心招标", Status: domain.TenderNew,
	}); err != nil {
		t.Fatalf("seed tender: %v", err)
	}

	rec, body := doJSON(t, router.Handler(), http.MethodPost, "/v1/tenders/t-1/confirm", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %v", rec.Code, body)
	}
	project := body["project"].(map[string]any)
	if project["name"] != "数据中心招标" || project["status"] != "pending" {
		t.Fatalf("project = %v", project)
	}

	// Second confirm is a no-op success.
	rec, body = doJSON(t, router.Handler(), http.MethodPost, "/v1/tenders/t-1/confirm", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("repeat confirm status = %d", rec.Code)
	}
	if body["project"] != nil {
		t.Fatalf("repeat confirm must not return a project: %v", body)
	}
}

func TestAdvanceMissingProjectIs404(t *testing.T) {
	router, _ := newTestRouter(t, &stubIngestor{})
	rec, body := doJSON(t, router.Handler(), http.MethodPost, "/v1/projects/no-such-id/advance", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d: %v", rec.Code, body)
	}
	if body["success"] != false {
		t.Fatalf("body = %v", body)
	}
}

func TestArchiveConflictIs409(t *testing.T) {
	router, _ := newTestRouter(t, &stubIngestor{})
	// Seeded project "1" is designing, not submitted.
	rec, _ := doJSON(t, router.Handler(), http.MethodPost, "/v1/projects/1/archive", `{"result":"won"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestConfigLifecycleAndInlineCrawl(t *testing.T) {
	ingestor := &stubIngestor{result: &domain.IngestResult{Path: domain.PathSearch, Tenders: []domain.TenderCandidate{}}}
	router, _ := newTestRouter(t, ingestor)
	handler := router.Handler()

	rec, body := doJSON(t, handler, http.MethodPost, "/v1/configs", `{"name":"省交易中心","url":"ggzy.example.gov.cn","keywords":["智慧交通"],"enabled":true}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create config: %d %v", rec.Code, body)
	}
	config := body["config"].(map[string]any)
	id := config["id"].(string)
	if id == "" {
		t.Fatal("created config must get an id")
	}

	rec, body = doJSON(t, handler, http.MethodPost, "/v1/configs/"+id+"/crawl", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("inline crawl: %d %v", rec.Code, body)
	}
	if body["queued"] != false || ingestor.crawledID != id {
		t.Fatalf("inline crawl body = %v, crawled = %q", body, ingestor.crawledID)
	}

	rec, _ = doJSON(t, handler, http.MethodDelete, "/v1/configs/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete config: %d", rec.Code)
	}
	rec, _ = doJSON(t, handler, http.MethodGet, "/v1/configs/"+id, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("deleted config should be 404, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t, &stubIngestor{})
	req := httptest.NewRequest(http.MethodOptions, "/v1/projects", nil)
	rec := httptest.NewRecorder()
	router.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("missing CORS header")
	}
}
