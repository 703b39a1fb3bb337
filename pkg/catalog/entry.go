// Package catalog defines cloud service catalog entries and the sources that
// supply them.
package catalog

import (
	"context"
	"errors"
	"strings"
)

// Well-known categories. Catalogs may use others.
const (
	CategoryIoT         = "IoT"
	CategoryIntegration = "Integration"
	CategoryWeb         = "Web"
	CategoryCompute     = "Compute"
	CategoryContainers  = "Containers"
	CategoryDatabases   = "Databases"
	CategoryStorage     = "Storage"
	CategoryAnalytics   = "Analytics"
	CategoryAIML        = "AI + ML"
	CategorySecurity    = "Security"
	CategoryMonitoring  = "Monitoring"
)

// ErrNoEntries is returned by sources that produced zero usable entries.
var ErrNoEntries = errors.New("catalog: no entries")

// Entry is a single recommendable cloud service. Name is the identity key.
type Entry struct {
	Name       string   `yaml:"name" json:"name"`
	Category   string   `yaml:"category" json:"category"`
	DocsURL    string   `yaml:"docs" json:"docs_url"`
	PricingURL string   `yaml:"pricing,omitempty" json:"pricing_url,omitempty"`
	Overview   string   `yaml:"overview,omitempty" json:"overview,omitempty"`
	Pros       []string `yaml:"pros,omitempty" json:"pros,omitempty"`
	Cons       []string `yaml:"cons,omitempty" json:"cons,omitempty"`
}

// Valid reports whether the entry has both a name and a category.
func (e Entry) Valid() bool {
	return strings.TrimSpace(e.Name) != "" && strings.TrimSpace(e.Category) != ""
}

// Source supplies catalog entries. Implementations may hit the network or
// disk; callers treat failures as collaborator errors.
type Source interface {
	Entries(ctx context.Context) ([]Entry, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) ([]Entry, error)

// Entries calls f(ctx).
func (f SourceFunc) Entries(ctx context.Context) ([]Entry, error) {
	return f(ctx)
}

// CleanText collapses runs of whitespace, including line breaks, to single
// spaces and trims the ends.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Sanitize drops malformed entries and cleans whitespace in names and
// categories. It returns the kept entries and the number skipped.
func Sanitize(entries []Entry) ([]Entry, int) {
	kept := make([]Entry, 0, len(entries))
	skipped := 0
	for i := range entries {
		if !entries[i].Valid() {
			skipped++
			continue
		}
		e := entries[i]
		e.Name = CleanText(e.Name)
		e.Category = CleanText(e.Category)
		kept = append(kept, e)
	}
	return kept, skipped
}

// FilterByCategory returns the entries whose category equals cat, ignoring case.
func FilterByCategory(entries []Entry, cat string) []Entry {
	result := make([]Entry, 0, len(entries))
	for i := range entries {
		if strings.EqualFold(entries[i].Category, cat) {
			result = append(result, entries[i])
		}
	}
	return result
}

// Categories returns the distinct categories in first-seen order.
func Categories(entries []Entry) []string {
	seen := make(map[string]struct{}, len(entries))
	var cats []string
	for i := range entries {
		c := entries[i].Category
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		cats = append(cats, c)
	}
	return cats
}
