package recommend

import (
	"sort"

	"github.com/HerbHall/cloudadvisor/pkg/catalog"
)

// Selection defaults and caps.
const (
	DefaultMinScore = 3
	DefaultTopN     = 8
	MaxTopN         = 50
)

// Options controls selection.
type Options struct {
	MinScore int `json:"min_score"`
	TopN     int `json:"top_n"`
}

// DefaultOptions returns the default selection options.
func DefaultOptions() Options {
	return Options{MinScore: DefaultMinScore, TopN: DefaultTopN}
}

// Normalized returns opts with floors and caps applied, as Select uses them.
func (o Options) Normalized() Options {
	return normalizeOptions(o)
}

// normalizeOptions applies floors and caps to selection options.
func normalizeOptions(opts Options) Options {
	if opts.MinScore < 1 {
		opts.MinScore = 1
	}
	if opts.TopN < 1 {
		opts.TopN = DefaultTopN
	}
	if opts.TopN > MaxTopN {
		opts.TopN = MaxTopN
	}
	return opts
}

// ScoredEntry is a catalog entry with its relevance score.
type ScoredEntry struct {
	catalog.Entry
	Score int `json:"score"`
}

// Result is a ranked selection: sorted by score descending then name
// ascending, at most TopN long, with unique names.
type Result []ScoredEntry

// Names returns the entry names in rank order.
func (r Result) Names() []string {
	names := make([]string, len(r))
	for i := range r {
		names[i] = r[i].Name
	}
	return names
}

// Select scores entries, keeps those with score >= MinScore, ranks them,
// truncates to TopN, and removes repeated names keeping the first.
// Entries without a name or category are skipped. An empty Result is a
// normal outcome.
func (s Scorer) Select(entries []catalog.Entry, features FeatureSet, compliance string, opts Options) Result {
	opts = normalizeOptions(opts)

	scored := make([]ScoredEntry, 0, len(entries))
	for i := range entries {
		if !entries[i].Valid() {
			continue
		}
		score := s.Score(entries[i], features, compliance)
		if score < opts.MinScore {
			continue
		}
		scored = append(scored, ScoredEntry{Entry: entries[i], Score: score})
	}

	sort.SliceStable(scored, func(a, b int) bool {
		if scored[a].Score != scored[b].Score {
			return scored[a].Score > scored[b].Score
		}
		return scored[a].Name < scored[b].Name
	})

	if len(scored) > opts.TopN {
		scored = scored[:opts.TopN]
	}

	return dedupe(scored)
}

// dedupe folds ranked entries into a new slice keeping the first
// occurrence of each name.
func dedupe(ranked []ScoredEntry) Result {
	out := make(Result, 0, len(ranked))
	seen := make(map[string]struct{}, len(ranked))
	for i := range ranked {
		if _, dup := seen[ranked[i].Name]; dup {
			continue
		}
		seen[ranked[i].Name] = struct{}{}
		out = append(out, ranked[i])
	}
	return out
}
