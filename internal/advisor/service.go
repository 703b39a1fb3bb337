// Package advisor assembles recommendation reports from a catalog source,
// the matching engine and the presentation helpers, and serves them over HTTP.
package advisor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/HerbHall/cloudadvisor/internal/diagram"
	"github.com/HerbHall/cloudadvisor/internal/metrics"
	"github.com/HerbHall/cloudadvisor/internal/migration"
	"github.com/HerbHall/cloudadvisor/internal/present"
	"github.com/HerbHall/cloudadvisor/internal/recommend"
	"github.com/HerbHall/cloudadvisor/pkg/catalog"
)

// MigrationInput asks for a data migration estimate.
type MigrationInput struct {
	SizeTB float64          `json:"size_tb"`
	Method migration.Method `json:"method"`
}

// Input is one advice request.
type Input struct {
	Request       recommend.Request
	Options       recommend.Options
	Migration     *MigrationInput
	RenderDiagram bool
}

// Report is the complete answer to one Input.
type Report struct {
	ID        string              `json:"id"`
	CreatedAt time.Time           `json:"created_at"`
	Request   recommend.Request   `json:"request"`
	Options   recommend.Options   `json:"options"`
	Scoring   string              `json:"scoring"`
	Features  []string            `json:"features"`
	Services  []present.Row       `json:"services"`
	Groups    []present.Group     `json:"groups"`
	Narrative string              `json:"narrative,omitempty"`
	Diagram   *diagram.Diagram    `json:"diagram,omitempty"`
	Migration *migration.Estimate `json:"migration,omitempty"`
}

// Empty reports whether no service matched.
func (r *Report) Empty() bool {
	return len(r.Services) == 0
}

// Service produces Reports. It is safe for concurrent use.
type Service struct {
	source     catalog.Source
	engine     *recommend.Engine
	rasterizer diagram.Rasterizer
	metrics    *metrics.Metrics
	defaults   recommend.Options
	now        func() time.Time
	logger     *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithRasterizer sets the diagram rasterizer used when an Input asks for one.
func WithRasterizer(r diagram.Rasterizer) Option {
	return func(s *Service) { s.rasterizer = r }
}

// WithMetrics sets the collectors the service updates.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithDefaults sets the selection options used for zero fields of an Input.
func WithDefaults(opts recommend.Options) Option {
	return func(s *Service) { s.defaults = opts }
}

// WithClock overrides the time source for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates an advisor over source using engine.
func NewService(source catalog.Source, engine *recommend.Engine, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		source:     source,
		engine:     engine,
		rasterizer: diagram.Disabled{},
		metrics:    metrics.New(nil),
		defaults:   recommend.DefaultOptions(),
		now:        time.Now,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the current catalog entries.
func (s *Service) Catalog(ctx context.Context) ([]catalog.Entry, error) {
	entries, err := s.source.Entries(ctx)
	if err != nil {
		s.metrics.CatalogLoadErrors.Inc()
		return nil, fmt.Errorf("advisor: load catalog: %w", err)
	}
	return entries, nil
}

// invalidator is implemented by caching sources such as
// catalog.CachedSource.
type invalidator interface {
	Invalidate()
}

// RefreshCatalog drops the cached catalog, when the source caches, and
// loads it again. It returns the number of entries loaded.
func (s *Service) RefreshCatalog(ctx context.Context) (int, error) {
	if inv, ok := s.source.(invalidator); ok {
		inv.Invalidate()
	}
	entries, err := s.Catalog(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Info("catalog refreshed", zap.Int("entries", len(entries)))
	return len(entries), nil
}

// Advise runs the full pipeline for in. The only error is a failed catalog
// load; an empty match is a normal report. Diagram failures are recorded in
// the report and never returned.
func (s *Service) Advise(ctx context.Context, in Input) (*Report, error) {
	entries, err := s.Catalog(ctx)
	if err != nil {
		s.metrics.Recommendations.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}

	opts := s.resolveOptions(in.Options).Normalized()
	result := s.engine.Recommend(in.Request, entries, opts)
	presentation := present.Present(result)

	report := &Report{
		ID:        uuid.NewString(),
		CreatedAt: s.now().UTC(),
		Request:   in.Request,
		Options:   opts,
		Scoring:   string(s.engine.Mode()),
		Features:  s.engine.Features(in.Request).Sorted(),
		Services:  present.Summarize(result),
		Groups:    presentation.Groups,
		Narrative: present.Narrative(in.Request.UseCase, result),
	}

	if in.Migration != nil {
		if est := migration.Compute(in.Migration.SizeTB, in.Migration.Method); !est.Zero() {
			report.Migration = &est
		}
	}

	if len(result) > 0 {
		var r diagram.Rasterizer = diagram.Disabled{}
		if in.RenderDiagram {
			r = s.rasterizer
		}
		d := diagram.Render(ctx, r, presentation.Flow)
		s.metrics.DiagramRenders.WithLabelValues(d.Outcome).Inc()
		if d.Error != "" {
			s.logger.Warn("diagram rendering failed",
				zap.String("report_id", report.ID),
				zap.String("outcome", d.Outcome),
				zap.String("error", d.Error),
			)
		}
		report.Diagram = &d
	}

	outcome := metrics.OutcomeOK
	if report.Empty() {
		outcome = metrics.OutcomeEmpty
	}
	s.metrics.Recommendations.WithLabelValues(outcome).Inc()
	s.metrics.RecommendationLen.Observe(float64(len(result)))

	s.logger.Info("recommendation complete",
		zap.String("report_id", report.ID),
		zap.Int("catalog_size", len(entries)),
		zap.Int("features", len(report.Features)),
		zap.Int("services", len(report.Services)),
		zap.Int("min_score", opts.MinScore),
		zap.Int("top_n", opts.TopN),
	)
	return report, nil
}

// resolveOptions fills zero fields from the service defaults.
func (s *Service) resolveOptions(opts recommend.Options) recommend.Options {
	if opts.MinScore == 0 {
		opts.MinScore = s.defaults.MinScore
	}
	if opts.TopN == 0 {
		opts.TopN = s.defaults.TopN
	}
	return opts
}
