package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/HerbHall/cloudadvisor/internal/advisor"
	"github.com/HerbHall/cloudadvisor/internal/migration"
	"github.com/HerbHall/cloudadvisor/internal/recommend"
	"github.com/HerbHall/cloudadvisor/internal/render"
)

type recommendFlags struct {
	useCase       string
	nonFunctional string
	compliance    string
	capabilities  []string
	minScore      int
	topN          int
	migrateTB     float64
	migrateMethod string
	diagram       bool
	markdown      bool
	jsonOut       bool
	style         string
}

func newRecommendCmd(a *app) *cobra.Command {
	f := &recommendFlags{}
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend services for a use case",
		Example: `  cloudadvisor recommend --use-case "ingest IoT telemetry and show dashboards" \
    --capability Serverless --capability "Data Analytics"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.recommend(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.useCase, "use-case", "", "free-text description of the workload")
	fl.StringVar(&f.nonFunctional, "non-functional", "", "non-functional requirements, e.g. high availability")
	fl.StringVar(&f.compliance, "compliance", "", "security/compliance needs, e.g. HIPAA")
	fl.StringArrayVar(&f.capabilities, "capability", nil, "enabled capability (repeatable), e.g. AI/ML, Serverless")
	fl.IntVar(&f.minScore, "min-score", 0, "minimum score (default from config)")
	fl.IntVar(&f.topN, "top-n", 0, "maximum number of services (default from config)")
	fl.Float64Var(&f.migrateTB, "migrate-tb", 0, "existing data to migrate, in TB")
	fl.StringVar(&f.migrateMethod, "migrate-method", "online", "migration method: online, offline or other")
	fl.BoolVar(&f.diagram, "diagram", false, "rasterize the flow diagram (requires diagram.enabled)")
	fl.BoolVar(&f.markdown, "markdown", false, "print the full markdown export")
	fl.BoolVar(&f.jsonOut, "json", false, "print the report as JSON")
	fl.StringVar(&f.style, "style", string(render.StyleAuto), "terminal style: auto, dark, light, ascii, notty")
	cmd.MarkFlagsMutuallyExclusive("markdown", "json")
	return cmd
}

func (a *app) recommend(cmd *cobra.Command, f *recommendFlags) error {
	ctx := cmd.Context()
	in := advisor.Input{
		Request: recommend.Request{
			UseCase:       f.useCase,
			NonFunctional: f.nonFunctional,
			Compliance:    f.compliance,
			Capabilities:  make(map[string]bool, len(f.capabilities)),
		},
		Options:       recommend.Options{MinScore: f.minScore, TopN: f.topN},
		RenderDiagram: f.diagram,
	}
	for _, c := range f.capabilities {
		in.Request.Capabilities[c] = true
	}
	if f.migrateTB > 0 {
		method, err := migration.ParseMethod(f.migrateMethod)
		if err != nil {
			return err
		}
		in.Migration = &advisor.MigrationInput{SizeTB: f.migrateTB, Method: method}
	}
	if f.minScore < 0 || f.topN < 0 {
		return errors.New("--min-score and --top-n must not be negative")
	}

	source, closeSource, err := buildSource(ctx, a.cfg.Catalog, a.logger)
	if err != nil {
		return err
	}
	defer closeSource()

	svc, err := buildService(source, a.cfg, nil, a.logger)
	if err != nil {
		return err
	}
	report, err := svc.Advise(ctx, in)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case f.jsonOut:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case f.markdown:
		_, err := fmt.Fprint(out, report.Markdown())
		return err
	default:
		rendered, err := render.Terminal(report.Condensed(), terminalWidth(), render.Style(f.style))
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, rendered)
		return err
	}
}

// terminalWidth returns the stdout width, or 0 when it is not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}
