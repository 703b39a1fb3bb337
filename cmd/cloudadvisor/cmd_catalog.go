package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/HerbHall/cloudadvisor/internal/config"
	"github.com/HerbHall/cloudadvisor/internal/store"
	"github.com/HerbHall/cloudadvisor/pkg/catalog"
)

func newCatalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect or import the service catalog",
	}
	cmd.AddCommand(newCatalogListCmd(a), newCatalogCategoriesCmd(a), newCatalogImportCmd(a))
	return cmd
}

func newCatalogListCmd(a *app) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog entries from the configured source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			source, closeSource, err := buildSource(cmd.Context(), a.cfg.Catalog, a.logger)
			if err != nil {
				return err
			}
			defer closeSource()

			entries, err := source.Entries(cmd.Context())
			if err != nil {
				return err
			}
			if category != "" {
				entries = catalog.FilterByCategory(entries, category)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tCATEGORY\tDOCS")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, e.Category, e.DocsURL)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only list entries in this category")
	return cmd
}

func newCatalogCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the distinct catalog categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			source, closeSource, err := buildSource(cmd.Context(), a.cfg.Catalog, a.logger)
			if err != nil {
				return err
			}
			defer closeSource()

			entries, err := source.Entries(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range catalog.Categories(entries) {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}

func newCatalogImportCmd(a *app) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy the configured catalog source into a SQLite database",
		Long: `Reads the catalog from the configured source (embedded, file or scrape) and
upserts every entry into the SQLite database at --db. Point catalog.source at
sqlite and catalog.path at the same file to serve from it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if a.cfg.Catalog.Source == config.SourceSQLite && a.cfg.Catalog.Path == dbPath {
				return fmt.Errorf("source and destination are the same database %q", dbPath)
			}

			source, closeSource, err := buildSource(ctx, a.cfg.Catalog, a.logger)
			if err != nil {
				return err
			}
			defer closeSource()

			entries, err := source.Entries(ctx)
			if err != nil {
				return err
			}

			st, err := store.New(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			repo, err := store.NewCatalogRepository(ctx, st)
			if err != nil {
				return err
			}
			n, err := repo.Import(ctx, entries)
			if err != nil {
				return err
			}
			a.logger.Info("catalog imported", zap.String("db", dbPath), zap.Int("entries", n))
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries into %s\n", n, dbPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "cloudadvisor.db", "SQLite database path")
	return cmd
}
