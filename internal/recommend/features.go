// Package recommend implements the catalog matching pipeline: feature
// extraction, scoring, and top-N selection. Everything here is pure and
// synchronous; catalog loading and rendering live elsewhere.
package recommend

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Vocabulary is the fixed list of domain phrases recognized in free text.
var Vocabulary = []string{
	"ai/ml", "ai", "ml", "machine learning", "analytics", "bi", "dashboard", "etl", "pipeline",
	"data warehouse", "integration", "storage", "serverless", "devops", "web app", "container",
	"monitoring", "hybrid", "database", "cosmos", "kubernetes", "app service", "functions", "logic app",
	"iot", "event", "event grid", "event hub", "stream", "batch", "data ingestion", "messaging", "workflow",
	"anomaly", "real-time",
}

// Request is one user submission.
type Request struct {
	UseCase       string          `json:"use_case"`
	NonFunctional string          `json:"non_functional,omitempty"`
	Compliance    string          `json:"compliance,omitempty"`
	Capabilities  map[string]bool `json:"capabilities,omitempty"`
}

// FeatureSet is a set of normalized lowercase tokens.
type FeatureSet map[string]struct{}

// Add inserts token if it is non-empty.
func (f FeatureSet) Add(token string) {
	if token == "" {
		return
	}
	f[token] = struct{}{}
}

// Has reports whether token is in the set.
func (f FeatureSet) Has(token string) bool {
	_, ok := f[token]
	return ok
}

// Sorted returns the tokens in lexical order.
func (f FeatureSet) Sorted() []string {
	out := make([]string, 0, len(f))
	for t := range f {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Extract derives the feature set for a request.
//
// True capability flags contribute their normalized names (lowercase,
// whitespace collapsed, spaces kept). The three free-text fields are joined
// into one search string; every Vocabulary phrase found in it is added, and
// so is every whitespace-separated token with surrounding punctuation
// trimmed. The token fallback is noisy on purpose.
func Extract(req Request) FeatureSet {
	features := make(FeatureSet)

	for name, on := range req.Capabilities {
		if on {
			features.Add(normalize(name))
		}
	}

	search := normalize(strings.Join([]string{req.UseCase, req.NonFunctional, req.Compliance}, " "))
	if search == "" {
		return features
	}

	for _, phrase := range Vocabulary {
		if strings.Contains(search, phrase) {
			features.Add(phrase)
		}
	}

	for _, word := range strings.Fields(search) {
		features.Add(strings.TrimFunc(word, isTrimmable))
	}

	return features
}

// normalize applies NFKC, lowercases, and collapses runs of whitespace.
func normalize(s string) string {
	s = norm.NFKC.String(s)
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func isTrimmable(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}
