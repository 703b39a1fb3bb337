// Package mcpserver exposes the recommender as a Model Context Protocol tool.
package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/HerbHall/cloudadvisor/internal/advisor"
	"github.com/HerbHall/cloudadvisor/internal/present"
	"github.com/HerbHall/cloudadvisor/internal/recommend"
	"github.com/HerbHall/cloudadvisor/internal/version"
)

// ToolName is the name of the recommendation tool.
const ToolName = "recommend_services"

// RecommendInput is the tool's argument object.
type RecommendInput struct {
	UseCase       string   `json:"use_case" jsonschema:"free-text description of the workload or business goal"`
	NonFunctional string   `json:"non_functional,omitempty" jsonschema:"non-functional requirements such as high availability"`
	Compliance    string   `json:"compliance,omitempty" jsonschema:"security or compliance needs such as HIPAA or GDPR"`
	Capabilities  []string `json:"capabilities,omitempty" jsonschema:"enabled capabilities, e.g. AI/ML, Data Analytics, DevOps, Serverless, Hybrid Cloud"`
	MinScore      int      `json:"min_score,omitempty" jsonschema:"minimum relevance score, default 3"`
	TopN          int      `json:"top_n,omitempty" jsonschema:"maximum number of services, default 8"`
}

// RecommendOutput is the tool's structured result.
type RecommendOutput struct {
	ReportID  string        `json:"report_id"`
	Services  []present.Row `json:"services"`
	Narrative string        `json:"narrative,omitempty"`
	Mermaid   string        `json:"mermaid,omitempty"`
}

// Server adapts an advisor.Service to MCP.
type Server struct {
	service *advisor.Service
	logger  *zap.Logger
}

// New creates an MCP server with the recommendation tool registered.
func New(service *advisor.Service, logger *zap.Logger) *mcp.Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{service: service, logger: logger.Named("mcp")}

	srv := mcp.NewServer(&mcp.Implementation{Name: version.Name, Version: version.Short()}, nil)
	mcp.AddTool(srv, &mcp.Tool{
		Name: ToolName,
		Description: "Recommend cloud services for a use case. Returns ranked services with " +
			"docs and pricing links, an architecture narrative and a Mermaid flow diagram.",
	}, s.Recommend)
	return srv
}

// Recommend handles one tool call.
func (s *Server) Recommend(ctx context.Context, _ *mcp.CallToolRequest, in RecommendInput) (*mcp.CallToolResult, RecommendOutput, error) {
	caps := make(map[string]bool, len(in.Capabilities))
	for _, c := range in.Capabilities {
		caps[c] = true
	}

	report, err := s.service.Advise(ctx, advisor.Input{
		Request: recommend.Request{
			UseCase:       in.UseCase,
			NonFunctional: in.NonFunctional,
			Compliance:    in.Compliance,
			Capabilities:  caps,
		},
		Options: recommend.Options{MinScore: in.MinScore, TopN: in.TopN},
	})
	if err != nil {
		s.logger.Error("tool call failed", zap.String("tool", ToolName), zap.Error(err))
		return nil, RecommendOutput{}, fmt.Errorf("recommend: %w", err)
	}

	out := RecommendOutput{
		ReportID:  report.ID,
		Services:  report.Services,
		Narrative: report.Narrative,
	}
	if out.Services == nil {
		out.Services = []present.Row{}
	}
	if report.Diagram != nil {
		out.Mermaid = report.Diagram.Mermaid
	}

	result := &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: report.Markdown()}},
	}
	return result, out, nil
}
