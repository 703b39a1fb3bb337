package advisor

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/HerbHall/cloudadvisor/internal/migration"
	"github.com/HerbHall/cloudadvisor/internal/present"
)

var money = message.NewPrinter(language.English)

// Markdown renders the report as a standalone markdown document: inputs,
// optional migration estimate, architecture overview, component table and
// the Mermaid flow.
func (r *Report) Markdown() string {
	return r.document(false)
}

// Condensed renders the same document with a compact component table:
// overviews are shortened and pros and cons are comma-separated. The CLI
// prints it to terminals.
func (r *Report) Condensed() string {
	return r.document(true)
}

func (r *Report) document(condensed bool) string {
	var b strings.Builder

	b.WriteString("# Cloud Solution Recommendation\n\n")
	fmt.Fprintf(&b, "**Use case:** %s\n\n", r.Request.UseCase)
	fmt.Fprintf(&b, "**Non-functional requirements:** %s\n\n", r.Request.NonFunctional)
	fmt.Fprintf(&b, "**Security/compliance:** %s\n\n", r.Request.Compliance)
	fmt.Fprintf(&b, "**Capabilities:** %s\n\n", strings.Join(enabledCapabilities(r.Request.Capabilities), ", "))

	if r.Migration != nil {
		writeMigration(&b, *r.Migration)
	}

	if r.Empty() {
		b.WriteString("_No relevant services matched your requirements. " +
			"Try adjusting your input, score threshold, or top N._\n")
		return b.String()
	}

	b.WriteString("## Solution Architecture Overview\n")
	b.WriteString("**Architecture Overview:**\n")
	b.WriteString(r.Narrative)
	b.WriteString("\n\n## Recommended Components\n")
	b.WriteString("| Score | Service | Category | Overview | Pros | Cons | Alternatives | Docs | Pricing |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|---|\n")
	for i := range r.Services {
		writeRow(&b, r.Services[i], condensed)
	}

	if r.Diagram != nil {
		b.WriteString("\n## Architecture Diagram (Mermaid)\n```mermaid\n")
		b.WriteString(strings.TrimSpace(r.Diagram.Mermaid))
		b.WriteString("\n```\n")
	}
	return b.String()
}

func writeMigration(b *strings.Builder, est migration.Estimate) {
	b.WriteString("## Data Migration and Storage Estimate\n")
	fmt.Fprintf(b, "- **Migration method:** %s\n", est.Method.Label())
	if est.Method == migration.MethodOffline {
		fmt.Fprintf(b, "- **Estimated migration cost:** %s (using Azure Data Box, not including shipping)\n",
			dollars(est.MigrationCost))
	} else {
		b.WriteString("- **Estimated migration cost:** $0 (online ingress to Azure is typically free)\n")
	}
	fmt.Fprintf(b, "- **Estimated monthly storage cost:** %s (Standard Hot Blob Storage, LRS)\n",
		dollars(est.MonthlyStorage))
	fmt.Fprintf(b, "> _Note: Actual costs may vary depending on redundancy, access tier, region, and transfer method. "+
		"Use the [Azure Pricing Calculator](%s) for a precise estimate._\n\n", migration.PricingCalculatorURL)
}

func writeRow(b *strings.Builder, row present.Row, condensed bool) {
	overview, sep := row.Overview, "; "
	if condensed {
		overview, sep = row.ShortOverview(), ", "
	}
	alts := "None"
	if len(row.Alternatives) > 0 {
		links := make([]string, len(row.Alternatives))
		for i, a := range row.Alternatives {
			links[i] = link(a.Name, a.URL)
		}
		alts = strings.Join(links, ", ")
	}
	fmt.Fprintf(b, "| %d | %s | %s | %s | %s | %s | %s | %s | %s |\n",
		row.Score,
		link(row.Service, row.DocsURL),
		cell(row.Category),
		cell(overview),
		list(row.Pros, sep),
		list(row.Cons, sep),
		alts,
		labelLink("Docs", row.DocsURL),
		labelLink("Pricing", row.PricingURL),
	)
}

func dollars(v float64) string {
	return money.Sprintf("$%.2f", v)
}

// link renders a markdown link, or plain text without a URL.
func link(text, url string) string {
	if url == "" {
		return cell(text)
	}
	return fmt.Sprintf("[%s](%s)", cell(text), url)
}

// labelLink renders a fixed-label link, or "-" without a URL.
func labelLink(label, url string) string {
	if url == "" {
		return "-"
	}
	return link(label, url)
}

func list(items []string, sep string) string {
	if len(items) == 0 {
		return "-"
	}
	return cell(strings.Join(items, sep))
}

// cell escapes text for a single markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

func enabledCapabilities(caps map[string]bool) []string {
	var out []string
	for name, on := range caps {
		if on {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
