package recommend

import (
	"github.com/HerbHall/cloudadvisor/pkg/catalog"
)

// Engine composes extraction, scoring and selection. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	scorer Scorer
}

// NewEngine creates a recommendation engine using the given scoring mode.
func NewEngine(mode ScoringMode) *Engine {
	return &Engine{scorer: Scorer{Mode: mode}}
}

// Mode returns the engine's scoring mode.
func (e *Engine) Mode() ScoringMode {
	if e.scorer.Mode == "" {
		return ScoringCompat
	}
	return e.scorer.Mode
}

// Recommend runs the full pipeline for one request against entries.
func (e *Engine) Recommend(req Request, entries []catalog.Entry, opts Options) Result {
	features := Extract(req)
	return e.scorer.Select(entries, features, req.Compliance, opts)
}

// Features exposes the extracted feature set for a request, for display
// and debugging.
func (e *Engine) Features(req Request) FeatureSet {
	return Extract(req)
}
