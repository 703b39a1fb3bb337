package present

import (
	"fmt"

	"github.com/HerbHall/cloudadvisor/internal/recommend"
)

// shortOverviewLen is the number of characters kept by Row.ShortOverview.
const shortOverviewLen = 60

// Link is a named URL.
type Link struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Row is one line of the component summary table.
type Row struct {
	Score        int      `json:"score"`
	Service      string   `json:"service"`
	Category     string   `json:"category"`
	DocsURL      string   `json:"docs_url"`
	PricingURL   string   `json:"pricing_url,omitempty"`
	Overview     string   `json:"overview"`
	Pros         []string `json:"pros,omitempty"`
	Cons         []string `json:"cons,omitempty"`
	Alternatives []Link   `json:"alternatives,omitempty"`
}

// ShortOverview returns the overview cut to 60 characters with "..."
// appended when it was longer.
func (r Row) ShortOverview() string {
	runes := []rune(r.Overview)
	if len(runes) <= shortOverviewLen {
		return r.Overview
	}
	return string(runes[:shortOverviewLen]) + "..."
}

// Summarize returns one row per ranked entry, in rank order.
func Summarize(result recommend.Result) []Row {
	rows := make([]Row, 0, len(result))
	for i := range result {
		e := result[i]
		overview := e.Overview
		if overview == "" {
			overview = fallbackOverview(e.Category)
		}
		var alts []Link
		for _, a := range Alternatives(e, result) {
			alts = append(alts, Link{Name: a.Name, URL: a.DocsURL})
		}
		rows = append(rows, Row{
			Score:        e.Score,
			Service:      e.Name,
			Category:     e.Category,
			DocsURL:      e.DocsURL,
			PricingURL:   e.PricingURL,
			Overview:     overview,
			Pros:         e.Pros,
			Cons:         e.Cons,
			Alternatives: alts,
		})
	}
	return rows
}

func fallbackOverview(category string) string {
	return fmt.Sprintf("A cloud service in the %s category. See documentation for details.", category)
}
