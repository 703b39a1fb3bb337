package recommend

import (
	"fmt"
	"strings"

	"github.com/HerbHall/cloudadvisor/pkg/catalog"
)

// Point values.
const (
	PointsFeatureMatch = 2
	PointsDoubleCredit = 1
	PointsCompliance   = 2
)

// ScoringMode selects how a feature match is credited.
type ScoringMode string

const (
	// ScoringCompat credits a matching feature +2 and then +1 again for the
	// same condition. This is the default.
	ScoringCompat ScoringMode = "compat"
	// ScoringStrict credits a matching feature +2 only.
	ScoringStrict ScoringMode = "strict"
)

// ParseScoringMode converts a config string to a ScoringMode. An empty
// string selects ScoringCompat.
func ParseScoringMode(s string) (ScoringMode, error) {
	switch ScoringMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScoringCompat:
		return ScoringCompat, nil
	case ScoringStrict:
		return ScoringStrict, nil
	default:
		return "", fmt.Errorf("unknown scoring mode %q (want %q or %q)", s, ScoringCompat, ScoringStrict)
	}
}

// Scorer computes relevance scores. The zero value scores in ScoringCompat mode.
type Scorer struct {
	Mode ScoringMode
}

// perMatch is the credit for one matching feature.
func (s Scorer) perMatch() int {
	if s.Mode == ScoringStrict {
		return PointsFeatureMatch
	}
	return PointsFeatureMatch + PointsDoubleCredit
}

// Score returns the relevance of entry for the given features. A feature
// matches when it is a substring of the lowercased name or category.
// Non-blank compliance text contained in the lowercased name adds a bonus.
// The result is never negative.
func (s Scorer) Score(entry catalog.Entry, features FeatureSet, compliance string) int {
	name := strings.ToLower(entry.Name)
	category := strings.ToLower(entry.Category)
	per := s.perMatch()

	score := 0
	for feature := range features {
		if feature == "" {
			continue
		}
		if strings.Contains(name, feature) || strings.Contains(category, feature) {
			score += per
		}
	}

	if c := strings.ToLower(strings.TrimSpace(compliance)); c != "" && strings.Contains(name, c) {
		score += PointsCompliance
	}

	return score
}
