package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/HerbHall/cloudadvisor/internal/advisor"
	"github.com/HerbHall/cloudadvisor/internal/config"
	"github.com/HerbHall/cloudadvisor/internal/diagram"
	"github.com/HerbHall/cloudadvisor/internal/metrics"
	"github.com/HerbHall/cloudadvisor/internal/recommend"
	"github.com/HerbHall/cloudadvisor/internal/scrape"
	"github.com/HerbHall/cloudadvisor/internal/store"
	"github.com/HerbHall/cloudadvisor/pkg/catalog"
)

// buildSource returns the configured catalog source. The returned close
// function releases any database handle and is never nil.
func buildSource(ctx context.Context, cfg config.CatalogConfig, logger *zap.Logger) (catalog.Source, func() error, error) {
	noop := func() error { return nil }
	cacheOpts := []catalog.CacheOption{catalog.WithLogger(logger.Named("catalog"))}

	switch cfg.Source {
	case config.SourceEmbedded, "":
		embedded := catalog.NewCatalog()
		if n := embedded.Skipped(); n > 0 {
			logger.Warn("skipped malformed embedded catalog entries", zap.Int("skipped", n))
		}
		return embedded, noop, nil

	case config.SourceFile:
		return catalog.NewCachedSource(catalog.NewFileSource(cfg.Path), cfg.TTL, cacheOpts...), noop, nil

	case config.SourceSQLite:
		st, err := store.New(cfg.Path)
		if err != nil {
			return nil, noop, fmt.Errorf("open catalog database: %w", err)
		}
		repo, err := store.NewCatalogRepository(ctx, st)
		if err != nil {
			_ = st.Close()
			return nil, noop, fmt.Errorf("prepare catalog database: %w", err)
		}
		return catalog.NewCachedSource(repo, cfg.TTL, cacheOpts...), st.Close, nil

	case config.SourceScrape:
		src := scrape.New(cfg.URL, 0, logger.Named("scrape"))
		return catalog.NewCachedSource(src, cfg.TTL, cacheOpts...), noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown catalog source %q", cfg.Source)
	}
}

// buildService wires the advisor service. reg may be nil.
func buildService(source catalog.Source, cfg config.AppConfig, reg prometheus.Registerer, logger *zap.Logger) (*advisor.Service, error) {
	mode, err := recommend.ParseScoringMode(cfg.Recommend.Scoring)
	if err != nil {
		return nil, err
	}

	var rasterizer diagram.Rasterizer = diagram.Disabled{}
	if cfg.Diagram.Enabled {
		rasterizer = diagram.NewKrokiClient(diagram.KrokiConfig{
			Endpoint: cfg.Diagram.Endpoint,
			Timeout:  cfg.Diagram.Timeout,
			RPS:      cfg.Diagram.RPS,
		}, logger.Named("diagram"))
	}

	return advisor.NewService(source, recommend.NewEngine(mode), logger.Named("advisor"),
		advisor.WithRasterizer(rasterizer),
		advisor.WithMetrics(metrics.New(reg)),
		advisor.WithDefaults(cfg.Recommend.Options()),
	), nil
}
