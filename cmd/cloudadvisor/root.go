package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/HerbHall/cloudadvisor/internal/config"
	"github.com/HerbHall/cloudadvisor/internal/version"
)

// app carries state shared by subcommands once the root pre-run has loaded
// configuration and built the logger.
type app struct {
	configPath string
	verbose    bool

	cfg    config.AppConfig
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "cloudadvisor",
		Short: "Recommend cloud services for a use case",
		Long: `cloudadvisor matches a free-text use case and capability flags against a
cloud service catalog, ranks the matches, and produces a grouped report
with an architecture narrative and a Mermaid flow diagram.`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetVersionTemplate(version.Info() + "\n")

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file (default ./cloudadvisor.yaml if present)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newServeCmd(a),
		newRecommendCmd(a),
		newCatalogCmd(a),
		newMCPCmd(a),
		newVersionCmd(),
	)
	return root
}

// init loads configuration and builds the logger.
func (a *app) init() error {
	c, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg, err = c.App()
	if err != nil {
		return err
	}

	logger, err := newLogger(a.cfg.Log.Level, a.verbose)
	if err != nil {
		return err
	}
	a.logger = logger
	if file := c.ConfigFile(); file != "" {
		a.logger.Debug("loaded config", zap.String("file", file))
	}
	return nil
}

// newLogger builds a production zap logger writing to stderr at level.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log.level %q: %w", level, err)
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{"stderr"}
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
		},
	}
}
