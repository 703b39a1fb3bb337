package advisor

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/HerbHall/cloudadvisor/internal/migration"
	"github.com/HerbHall/cloudadvisor/internal/recommend"
	"github.com/HerbHall/cloudadvisor/internal/server"
	"github.com/HerbHall/cloudadvisor/pkg/catalog"
)

// maxBodyBytes bounds recommendation request bodies.
const maxBodyBytes = 64 << 10

// RecommendationRequest is the body of POST /api/v1/recommendations.
type RecommendationRequest struct {
	UseCase       string            `json:"use_case" validate:"max=4000"`
	NonFunctional string            `json:"non_functional" validate:"max=1000"`
	Compliance    string            `json:"compliance" validate:"max=200"`
	Capabilities  map[string]bool   `json:"capabilities" validate:"max=32"`
	MinScore      *int              `json:"min_score" validate:"omitempty,min=1,max=10"`
	TopN          *int              `json:"top_n" validate:"omitempty,min=1,max=20"`
	Migration     *MigrationRequest `json:"migration"`
	RenderDiagram bool              `json:"render_diagram"`
}

// MigrationRequest asks for a migration estimate.
type MigrationRequest struct {
	SizeTB float64 `json:"size_tb" validate:"gte=0,lte=1000000"`
	Method string  `json:"method" validate:"required,oneof=online offline other"`
}

// Input converts the request into a service Input.
func (req RecommendationRequest) Input() Input {
	in := Input{
		Request: recommend.Request{
			UseCase:       req.UseCase,
			NonFunctional: req.NonFunctional,
			Compliance:    req.Compliance,
			Capabilities:  req.Capabilities,
		},
		RenderDiagram: req.RenderDiagram,
	}
	if req.MinScore != nil {
		in.Options.MinScore = *req.MinScore
	}
	if req.TopN != nil {
		in.Options.TopN = *req.TopN
	}
	if req.Migration != nil {
		in.Migration = &MigrationInput{
			SizeTB: req.Migration.SizeTB,
			Method: migration.Method(req.Migration.Method),
		}
	}
	return in
}

// EntriesResponse is the response for GET /api/v1/catalog/entries.
type EntriesResponse struct {
	Count   int             `json:"count"`
	Entries []catalog.Entry `json:"entries"`
}

// CategoriesResponse is the response for GET /api/v1/catalog/categories.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// RefreshResponse is the response for POST /api/v1/catalog/refresh.
type RefreshResponse struct {
	Count int `json:"count"`
}

// Handler serves the advisor API.
type Handler struct {
	service  *Service
	validate *validator.Validate
	logger   *zap.Logger
}

// NewHandler creates a new advisor API handler. A nil validate gets a
// validator that reports JSON field names.
func NewHandler(service *Service, validate *validator.Validate, logger *zap.Logger) *Handler {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, validate: validate, logger: logger}
}

// NewValidator returns a validator whose errors name fields by their JSON tag.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// RegisterRoutes implements server.RouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/catalog/entries", h.handleListEntries)
	mux.HandleFunc("GET /api/v1/catalog/categories", h.handleListCategories)
	mux.HandleFunc("POST /api/v1/catalog/refresh", h.handleRefreshCatalog)
	mux.HandleFunc("POST /api/v1/recommendations", h.handleRecommend)
	mux.HandleFunc("POST /api/v1/recommendations/markdown", h.handleRecommendMarkdown)
}

// handleListEntries returns the catalog, optionally filtered by category.
//
//	@Summary		List catalog entries
//	@Tags			catalog
//	@Produce		json
//	@Param			category query string false "Filter by category, case-insensitive"
//	@Success		200 {object} EntriesResponse
//	@Failure		503 {object} server.Problem
//	@Router			/catalog/entries [get]
func (h *Handler) handleListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.Catalog(r.Context())
	if err != nil {
		h.logger.Error("failed to load catalog", zap.Error(err))
		server.ServiceUnavailable(w, "catalog is unavailable", r.URL.Path)
		return
	}

	if category := r.URL.Query().Get("category"); category != "" {
		entries = catalog.FilterByCategory(entries, category)
	}
	if entries == nil {
		entries = []catalog.Entry{}
	}

	writeJSON(w, http.StatusOK, EntriesResponse{Count: len(entries), Entries: entries})
}

// handleListCategories returns the distinct catalog categories.
//
//	@Summary		List catalog categories
//	@Tags			catalog
//	@Produce		json
//	@Success		200 {object} CategoriesResponse
//	@Failure		503 {object} server.Problem
//	@Router			/catalog/categories [get]
func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.Catalog(r.Context())
	if err != nil {
		h.logger.Error("failed to load catalog", zap.Error(err))
		server.ServiceUnavailable(w, "catalog is unavailable", r.URL.Path)
		return
	}
	cats := catalog.Categories(entries)
	if cats == nil {
		cats = []string{}
	}
	writeJSON(w, http.StatusOK, CategoriesResponse{Categories: cats})
}

// handleRefreshCatalog drops any cached catalog and reloads it.
//
//	@Summary		Reload the catalog
//	@Tags			catalog
//	@Produce		json
//	@Success		200 {object} RefreshResponse
//	@Failure		503 {object} server.Problem
//	@Router			/catalog/refresh [post]
func (h *Handler) handleRefreshCatalog(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.RefreshCatalog(r.Context())
	if err != nil {
		h.logger.Error("failed to refresh catalog", zap.Error(err))
		server.ServiceUnavailable(w, "catalog is unavailable", r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, RefreshResponse{Count: n})
}

// handleRecommend returns a recommendation report.
//
//	@Summary		Recommend cloud services
//	@Tags			recommendations
//	@Accept			json
//	@Produce		json
//	@Param			request body RecommendationRequest true "Use case and capabilities"
//	@Success		200 {object} Report
//	@Failure		400 {object} server.Problem
//	@Failure		503 {object} server.Problem
//	@Router			/recommendations [post]
func (h *Handler) handleRecommend(w http.ResponseWriter, r *http.Request) {
	report, ok := h.advise(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleRecommendMarkdown returns the recommendation as a markdown document.
//
//	@Summary		Export a recommendation as markdown
//	@Tags			recommendations
//	@Accept			json
//	@Produce		text/markdown
//	@Param			request body RecommendationRequest true "Use case and capabilities"
//	@Success		200 {string} string
//	@Failure		400 {object} server.Problem
//	@Failure		503 {object} server.Problem
//	@Router			/recommendations/markdown [post]
func (h *Handler) handleRecommendMarkdown(w http.ResponseWriter, r *http.Request) {
	report, ok := h.advise(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="cloud_solution.md"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(report.Markdown()))
}

// advise decodes, validates and runs a request, writing a problem response
// on failure.
func (h *Handler) advise(w http.ResponseWriter, r *http.Request) (*Report, bool) {
	var req RecommendationRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		server.BadRequest(w, "invalid request body: "+err.Error(), r.URL.Path)
		return nil, false
	}
	if err := h.validate.Struct(req); err != nil {
		h.logger.Debug("validation failed", zap.Error(err))
		server.BadRequest(w, validationDetail(err), r.URL.Path)
		return nil, false
	}

	report, err := h.service.Advise(r.Context(), req.Input())
	if err != nil {
		h.logger.Error("recommendation failed", zap.Error(err))
		server.ServiceUnavailable(w, "catalog is unavailable", r.URL.Path)
		return nil, false
	}
	return report, true
}

// validationDetail turns validator errors into one readable sentence.
func validationDetail(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", field, fe.Param()))
		case "min", "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "max", "lte":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

// -- helpers --

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
