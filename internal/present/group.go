// Package present turns a ranked recommendation into the shapes a report
// needs: category groups, a flow diagram, summary rows and a short narrative.
package present

import (
	"strings"

	"github.com/HerbHall/cloudadvisor/internal/recommend"
	"github.com/HerbHall/cloudadvisor/pkg/catalog"
)

// FlowOrder is the category priority used to lay out the flow diagram,
// roughly following data from ingestion to observation.
var FlowOrder = []string{
	catalog.CategoryIoT,
	catalog.CategoryIntegration,
	catalog.CategoryWeb,
	catalog.CategoryCompute,
	catalog.CategoryContainers,
	catalog.CategoryDatabases,
	catalog.CategoryStorage,
	catalog.CategoryAnalytics,
	catalog.CategoryAIML,
	catalog.CategorySecurity,
	catalog.CategoryMonitoring,
}

// Group is the ranked entries of one category.
type Group struct {
	Category string                  `json:"category"`
	Entries  []recommend.ScoredEntry `json:"entries"`
}

// Presentation is the grouped view of a result plus its flow diagram.
type Presentation struct {
	Groups []Group `json:"groups"`
	Flow   Flow    `json:"flow"`
}

// Present groups result in flow order and describes the flow between groups.
func Present(result recommend.Result) Presentation {
	groups := OrderForFlow(GroupByCategory(result))
	return Presentation{
		Groups: groups,
		Flow:   DescribeFlow(groups),
	}
}

// GroupByCategory buckets result by category, in first-seen order. Entries
// keep their ranked order inside each group.
func GroupByCategory(result recommend.Result) []Group {
	var groups []Group
	index := make(map[string]int)
	for i := range result {
		cat := result[i].Category
		pos, ok := index[cat]
		if !ok {
			pos = len(groups)
			index[cat] = pos
			groups = append(groups, Group{Category: cat})
		}
		groups[pos].Entries = append(groups[pos].Entries, result[i])
	}
	return groups
}

// OrderForFlow sorts groups by FlowOrder. Categories are matched ignoring
// case; groups whose category is not listed follow in their incoming order.
func OrderForFlow(groups []Group) []Group {
	ordered := make([]Group, 0, len(groups))
	used := make([]bool, len(groups))
	for _, want := range FlowOrder {
		for i := range groups {
			if !used[i] && strings.EqualFold(groups[i].Category, want) {
				ordered = append(ordered, groups[i])
				used[i] = true
			}
		}
	}
	for i := range groups {
		if !used[i] {
			ordered = append(ordered, groups[i])
		}
	}
	return ordered
}

// Alternatives returns up to three other entries from result that share
// entry's category, in ranked order.
func Alternatives(entry recommend.ScoredEntry, result recommend.Result) []recommend.ScoredEntry {
	const maxAlternatives = 3
	var alts []recommend.ScoredEntry
	for i := range result {
		if len(alts) == maxAlternatives {
			break
		}
		if result[i].Category == entry.Category && result[i].Name != entry.Name {
			alts = append(alts, result[i])
		}
	}
	return alts
}
