package httpadapter

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/4613216-rgb000/smart-bid-aide/internal/core/domain"
	"github.com/4613216-rgb000/smart-bid-aide/internal/core/ports"
)

type Router struct {
	ingest    ports.TenderIngestor
	triage    ports.TenderTriage
	pipeline  ports.ProjectPipeline
	directory ports.ProjectDirectory

	projects ports.ProjectRepository
	tenders  ports.TenderRepository
	cases    ports.CaseRepository
	configs  ports.ConfigRepository

	queue   ports.CrawlQueue
	metrics http.Handler

	defaultUpcomingDays int
	now                 func() time.Time
}

type RouterOptions struct {
	Ingest    ports.TenderIngestor
	Triage    ports.TenderTriage
	Pipeline  ports.ProjectPipeline
	Directory ports.ProjectDirectory

	Projects ports.ProjectRepository
	Tenders  ports.TenderRepository
	Cases    ports.CaseRepository
	Configs  ports.ConfigRepository

	// Queue may be nil; crawl-now requests then run inline.
	Queue   ports.CrawlQueue
	Metrics http.Handler

	DefaultUpcomingDays int
}

func NewRouter(options RouterOptions) *Router {
	days := options.DefaultUpcomingDays
	if days <= 0 {
		days = 7
	}
	return &Router{
		ingest:              options.Ingest,
		triage:              options.Triage,
		pipeline:            options.Pipeline,
		directory:           options.Directory,
		projects:            options.Projects,
		tenders:             options.Tenders,
		cases:               options.Cases,
		configs:             options.Configs,
		queue:               options.Queue,
		metrics:             options.Metrics,
		defaultUpcomingDays: days,
		now:                 time.Now,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics)
	}

	mux.HandleFunc("/v1/scrape", rt.scrape)
	mux.HandleFunc("/v1/search", rt.search)

	mux.HandleFunc("/v1/projects", rt.projectCollection)
	mux.HandleFunc("/v1/projects/upcoming", rt.upcomingProjects)
	mux.HandleFunc("/v1/projects/", rt.projectResource)

	mux.HandleFunc("/v1/tenders", rt.triageBoard)
	mux.HandleFunc("/v1/tenders/", rt.tenderResource)

	mux.HandleFunc("/v1/cases", rt.caseCollection)

	mux.HandleFunc("/v1/configs", rt.configCollection)
	mux.HandleFunc("/v1/configs/", rt.configResource)

	return corsMiddleware(requestIDMiddleware(accessLogMiddleware(mux)))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) scrape(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req struct {
		URL      string   `json:"url"`
		Keywords []string `json:"keywords"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid json")
		return
	}

	result, err := rt.ingest.ScrapeAdhoc(r.Context(), req.URL, domain.NormalizeKeywords(req.Keywords))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"path":        result.Path,
		"tenders":     result.Tenders,
		"rawMarkdown": result.RawMarkdown,
		"sourceUrl":   result.SourceURL,
		"metadata":    result.Metadata,
	})
}

func (rt *Router) search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req struct {
		Query    string   `json:"query"`
		Keywords []string `json:"keywords"`
		Limit    int      `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid json")
		return
	}

	result, err := rt.ingest.SearchAdhoc(r.Context(), req.Query, domain.NormalizeKeywords(req.Keywords), req.Limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"path":              result.Path,
		"tenders":           result.Tenders,
		"searchResultCount": result.SearchResultCount,
	})
}

// projectView decorates a stored project with the display fields the
// dashboard computes per request.
type projectView struct {
	domain.BidProject
	Progress int                 `json:"progress"`
	DaysLeft int                 `json:"daysLeft"`
	Urgency  domain.UrgencyLevel `json:"urgency"`
}

func (rt *Router) viewOf(project domain.BidProject) projectView {
	days, urgency := domain.ClassifyUrgency(project.Deadline, rt.now())
	return projectView{
		BidProject: project,
		Progress:   int(domain.Progress(project.Status)),
		DaysLeft:   days,
		Urgency:    urgency,
	}
}

func (rt *Router) viewsOf(projects []domain.BidProject) []projectView {
	views := make([]projectView, 0, len(projects))
	for _, project := range projects {
		views = append(views, rt.viewOf(project))
	}
	return views
}

func (rt *Router) projectCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		var projects []domain.BidProject
		if status := r.URL.Query().Get("status"); status != "" {
			projects = rt.projects.GetByStatus(r.Context(), domain.ProjectStatus(status))
		} else {
			projects = rt.projects.GetAll(r.Context())
		}
		writeSuccess(w, http.StatusOK, map[string]any{"projects": rt.viewsOf(projects)})
	case http.MethodPost:
		var project domain.BidProject
		if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
			writeFailure(w, http.StatusBadRequest, "invalid json")
			return
		}
		created, err := rt.directory.Create(r.Context(), project)
		if err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, http.StatusCreated, map[string]any{"project": rt.viewOf(created)})
	default:
		writeMethodNotAllowed(w)
	}
}

func (rt *Router) upcomingProjects(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	days := queryInt(r, "days", rt.defaultUpcomingDays)
	projects := rt.projects.GetUpcoming(r.Context(), days)
	writeSuccess(w, http.StatusOK, map[string]any{"projects": rt.viewsOf(projects), "days": days})
}

func (rt *Router) projectResource(w http.ResponseWriter, r *http.Request) {
	id, action := splitResourcePath(r.URL.Path, "/v1/projects/")
	if id == "" {
		writeFailure(w, http.StatusBadRequest, "project id is required")
		return
	}

	switch action {
	case "":
		rt.projectByID(w, r, id)
	case "advance":
		rt.advanceProject(w, r, id)
	case "archive":
		rt.archiveProject(w, r, id)
	case "status":
		rt.setProjectStatus(w, r, id)
	default:
		writeFailure(w, http.StatusNotFound, "unknown project action")
	}
}

func (rt *Router) projectByID(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		project, ok := rt.projects.GetByID(r.Context(), id)
		if !ok {
			writeFailure(w, http.StatusNotFound, "project not found")
			return
		}
		writeSuccess(w, http.StatusOK, map[string]any{"project": rt.viewOf(project)})
	case http.MethodPut:
		var project domain.BidProject
		if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
			writeFailure(w, http.StatusBadRequest, "invalid json")
			return
		}
		project.ID = id
		updated, err := rt.directory.Update(r.Context(), project)
		if err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, map[string]any{"project": rt.viewOf(updated)})
	default:
		writeMethodNotAllowed(w)
	}
}

func (rt *Router) advanceProject(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	project, err := rt.pipeline.AdvanceToNext(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"project": rt.viewOf(project)})
}

func (rt *Router) archiveProject(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	var input ports.ArchiveInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid json")
		return
	}
	record, err := rt.pipeline.Archive(r.Context(), id, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"case": record})
}

func (rt *Router) setProjectStatus(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPut {
		writeMethodNotAllowed(w)
		return
	}
	var req struct {
		Status domain.ProjectStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid json")
		return
	}
	project, err := rt.directory.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"project": rt.viewOf(project)})
}

func (rt *Router) triageBoard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	board := rt.triage.Partition(r.Context())
	writeSuccess(w, http.StatusOK, map[string]any{"board": board})
}

func (rt *Router) tenderResource(w http.ResponseWriter, r *http.Request) {
	id, action := splitResourcePath(r.URL.Path, "/v1/tenders/")
	if id == "" {
		writeFailure(w, http.StatusBadRequest, "tender id is required")
		return
	}
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	switch action {
	case "confirm":
		project, err := rt.triage.Confirm(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		if project == nil {
			writeSuccess(w, http.StatusOK, map[string]any{"project": nil})
			return
		}
		view := rt.viewOf(*project)
		writeSuccess(w, http.StatusCreated, map[string]any{"project": view})
	case "ignore":
		if err := rt.triage.Ignore(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, map[string]any{})
	default:
		writeFailure(w, http.StatusNotFound, "unknown tender action")
	}
}

func (rt *Router) caseCollection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"cases": rt.cases.GetAll(r.Context())})
}

func (rt *Router) configCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeSuccess(w, http.StatusOK, map[string]any{"configs": rt.configs.GetAll(r.Context())})
	case http.MethodPost:
		var config domain.CrawlConfig
		if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
			writeFailure(w, http.StatusBadRequest, "invalid json")
			return
		}
		if strings.TrimSpace(config.Name) == "" || strings.TrimSpace(config.URL) == "" {
			writeFailure(w, http.StatusBadRequest, "name and url are required")
			return
		}
		if config.ID == "" {
			config.ID = newID()
		}
		if err := rt.configs.Save(r.Context(), config); err != nil {
			writeError(w, err)
			return
		}
		saved, _ := rt.configs.GetByID(r.Context(), config.ID)
		writeSuccess(w, http.StatusCreated, map[string]any{"config": saved})
	default:
		writeMethodNotAllowed(w)
	}
}

func (rt *Router) configResource(w http.ResponseWriter, r *http.Request) {
	id, action := splitResourcePath(r.URL.Path, "/v1/configs/")
	if id == "" {
		writeFailure(w, http.StatusBadRequest, "config id is required")
		return
	}

	switch action {
	case "":
		rt.configByID(w, r, id)
	case "crawl":
		rt.triggerCrawl(w, r, id)
	default:
		writeFailure(w, http.StatusNotFound, "unknown config action")
	}
}

func (rt *Router) configByID(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		config, ok := rt.configs.GetByID(r.Context(), id)
		if !ok {
			writeFailure(w, http.StatusNotFound, "config not found")
			return
		}
		writeSuccess(w, http.StatusOK, map[string]any{"config": config})
	case http.MethodPut:
		config, ok := rt.configs.GetByID(r.Context(), id)
		if !ok {
			writeFailure(w, http.StatusNotFound, "config not found")
			return
		}
		var update domain.CrawlConfig
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			writeFailure(w, http.StatusBadRequest, "invalid json")
			return
		}
		update.ID = config.ID
		update.CreatedAt = config.CreatedAt
		update.LastCrawledAt = config.LastCrawledAt
		if err := rt.configs.Save(r.Context(), update); err != nil {
			writeError(w, err)
			return
		}
		saved, _ := rt.configs.GetByID(r.Context(), id)
		writeSuccess(w, http.StatusOK, map[string]any{"config": saved})
	case http.MethodDelete:
		if err := rt.configs.Delete(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, map[string]any{})
	default:
		writeMethodNotAllowed(w)
	}
}

// triggerCrawl hands the crawl to the worker pool when a queue is wired and
// otherwise runs it inline so single-binary deployments still work.
func (rt *Router) triggerCrawl(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	if _, ok := rt.configs.GetByID(r.Context(), id); !ok {
		writeFailure(w, http.StatusNotFound, "config not found")
		return
	}

	if rt.queue != nil {
		if err := rt.queue.PublishCrawlRequested(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, http.StatusAccepted, map[string]any{"queued": true})
		return
	}

	result, err := rt.ingest.CrawlConfigured(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"queued":            false,
		"path":              result.Path,
		"tenders":           result.Tenders,
		"searchResultCount": result.SearchResultCount,
	})
}

// splitResourcePath splits "/v1/things/{id}[/{action}]" after the prefix.
func splitResourcePath(path, prefix string) (id, action string) {
	rest := strings.TrimPrefix(path, prefix)
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return "", ""
	}
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func queryInt(r *http.Request, name string, fallback int) int {
	value, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
