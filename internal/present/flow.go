package present

import (
	"fmt"
	"strings"
)

// Node is one diagram box.
type Node struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Category string `json:"category"`
}

// Edge is a directed link between two nodes.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Flow is a left-to-right pipeline diagram of the recommended services.
type Flow struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// DescribeFlow builds the flow for groups, which should already be in flow
// order. Nodes are numbered N0..Nk in that order. Every entry of a group
// links to every entry of the next group. A single group yields no edges.
func DescribeFlow(groups []Group) Flow {
	var flow Flow
	var prev []string
	for _, g := range groups {
		if len(g.Entries) == 0 {
			continue
		}
		curr := make([]string, 0, len(g.Entries))
		for i := range g.Entries {
			id := fmt.Sprintf("N%d", len(flow.Nodes))
			flow.Nodes = append(flow.Nodes, Node{
				ID:       id,
				Label:    g.Entries[i].Name,
				Category: g.Category,
			})
			curr = append(curr, id)
		}
		for _, from := range prev {
			for _, to := range curr {
				flow.Edges = append(flow.Edges, Edge{From: from, To: to})
			}
		}
		prev = curr
	}
	return flow
}

// Mermaid renders the flow as a Mermaid flowchart.
func (f Flow) Mermaid() string {
	var b strings.Builder
	b.WriteString("flowchart LR")
	for _, n := range f.Nodes {
		fmt.Fprintf(&b, "\n    %s[\"%s\"]", n.ID, escapeLabel(n.Label))
	}
	for _, e := range f.Edges {
		fmt.Fprintf(&b, "\n    %s --> %s", e.From, e.To)
	}
	return b.String()
}

var labelEscaper = strings.NewReplacer(`"`, "#quot;", "\r\n", " ", "\n", " ", "\r", " ")

// escapeLabel replaces characters that would end a quoted Mermaid label or
// split a node declaration across lines.
func escapeLabel(s string) string {
	return labelEscaper.Replace(s)
}
