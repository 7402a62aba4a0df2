package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/homico/browse/internal/domain"
	"github.com/homico/browse/internal/domain/catalog"
	"github.com/homico/browse/internal/domain/filter"
	"github.com/homico/browse/internal/usecase/browse"
	healthuc "github.com/homico/browse/internal/usecase/health"
	listinguc "github.com/homico/browse/internal/usecase/listing"
	"github.com/homico/browse/internal/version"
)

const maxActionsPerRequest = 50

// Server serves the browse HTTP API.
type Server struct {
	sessions      *browse.Sessions
	listings      *listinguc.Service
	catalog       *catalog.Catalog
	health        *healthuc.Service
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	sessions *browse.Sessions,
	listings *listinguc.Service,
	cat *catalog.Catalog,
	health *healthuc.Service,
) *Server {
	return &Server{
		sessions:      sessions,
		listings:      listings,
		catalog:       cat,
		health:        health,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Routes mounts all API routes on r.
func (s *Server) Routes(r gochi.Router) {
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/v1", func(r gochi.Router) {
		r.Get("/categories", s.ListCategories)
		r.Get("/categories/{key}", s.GetCategory)
		r.Get("/categories/{key}/subcategories", s.ListSubcategories)
		r.Get("/subcategories/{key}", s.GetSubcategory)
		r.Get("/budgets", s.ListBudgets)

		r.Route("/browse", func(r gochi.Router) {
			r.Get("/canonical", s.CanonicalQuery)
			r.Post("/sessions", s.OpenSession)
			r.Route("/sessions/{id}", func(r gochi.Router) {
				r.Get("/", s.GetSession)
				r.Delete("/", s.CloseSession)
				r.Post("/actions", s.ApplyActions)
				r.Get("/professionals", s.ListProfessionals)
			})
		})
	})
}

// OpenSession handles POST /v1/browse/sessions.
func (s *Server) OpenSession(w http.ResponseWriter, r *http.Request) {
	var req OpenSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	path := req.Path
	if path != "" && !strings.HasPrefix(path, "/") {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "path must start with /")
		return
	}

	snap, err := s.sessions.Open(r.Context(), path, strings.TrimPrefix(req.Query, "?"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("Location", "/v1/browse/sessions/"+snap.ID)
	writeJSON(w, http.StatusCreated, sessionToResponse(snap))
}

// GetSession handles GET /v1/browse/sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.sessions.Get(r.Context(), gochi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(snap))
}

// CloseSession handles DELETE /v1/browse/sessions/{id}.
func (s *Server) CloseSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Close(r.Context(), gochi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApplyActions handles POST /v1/browse/sessions/{id}/actions.
func (s *Server) ApplyActions(w http.ResponseWriter, r *http.Request) {
	var req ApplyActionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Actions) > maxActionsPerRequest {
		writeError(w, http.StatusBadRequest, CodeValidationFailed,
			"at most "+strconv.Itoa(maxActionsPerRequest)+" actions per request")
		return
	}

	actions, err := actionsFromRequest(req.Actions)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	snap, err := s.sessions.Apply(r.Context(), gochi.URLParam(r, "id"), actions)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(snap))
}

// ListProfessionals handles GET /v1/browse/sessions/{id}/professionals.
func (s *Server) ListProfessionals(w http.ResponseWriter, r *http.Request) {
	page, ok := intParam(w, r.URL.Query(), "page")
	if !ok {
		return
	}
	limit, ok := intParam(w, r.URL.Query(), "limit")
	if !ok {
		return
	}

	state, err := s.sessions.State(r.Context(), gochi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	res, err := s.listings.Search(r.Context(), state, page, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pageToResponse(res))
}

// CanonicalQuery handles GET /v1/browse/canonical. It answers with the query
// a freshly mounted browse view would settle on for the request's query.
func (s *Server) CanonicalQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, CanonicalResponse{
		Query:   filter.Canonical(q),
		Filters: filtersToResponse(filter.ParseSeed(q).State()),
	})
}

// ListCategories handles GET /v1/categories.
func (s *Server) ListCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"items": s.catalog.Categories()})
}

// GetCategory handles GET /v1/categories/{key}.
func (s *Server) GetCategory(w http.ResponseWriter, r *http.Request) {
	cat, err := s.catalog.Category(gochi.URLParam(r, "key"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

// ListSubcategories handles GET /v1/categories/{key}/subcategories.
func (s *Server) ListSubcategories(w http.ResponseWriter, r *http.Request) {
	subs, err := s.catalog.Subcategories(gochi.URLParam(r, "key"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": subs})
}

// GetSubcategory handles GET /v1/subcategories/{key}: resolves the owning category.
func (s *Server) GetSubcategory(w http.ResponseWriter, r *http.Request) {
	key := gochi.URLParam(r, "key")
	parent, ok := s.catalog.ParentOf(key)
	if !ok {
		s.handleDomainError(w, r, fmt.Errorf("%w: subcategory %q", domain.ErrCategoryNotFound, key))
		return
	}
	writeJSON(w, http.StatusOK, SubcategoryResponse{Key: key, Category: parent})
}

// ListBudgets handles GET /v1/budgets.
func (s *Server) ListBudgets(w http.ResponseWriter, _ *http.Request) {
	items := make([]BudgetResponse, 0, len(filter.Budgets))
	for _, b := range filter.Budgets {
		low, high := b.Range()
		items = append(items, BudgetResponse{Key: string(b), Min: low, Max: high})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:  string(report.Status),
		Version: version.Version,
		Checks:  checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// intParam reads an optional positive integer query parameter; 0 means absent.
func intParam(w http.ResponseWriter, q url.Values, name string) (int, bool) {
	raw := q.Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, name+" must be a positive integer")
		return 0, false
	}
	return v, true
}
