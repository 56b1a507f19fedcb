package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/openclaw-concierge/internal/catalog"
	"github.com/ajitpratap0/openclaw-concierge/internal/config"
	"github.com/ajitpratap0/openclaw-concierge/internal/models"
)

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and import the venue catalog",
	}
	cmd.AddCommand(catalogValidateCmd(), catalogImportCmd(), catalogListCmd())
	return cmd
}

// catalogFile returns the file argument or the configured catalog path.
func catalogFile(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Catalog.Path
}

func catalogValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a YAML or JSON catalog file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := catalogFile(args)
			items, err := catalog.ReadFile(path)
			if err != nil {
				return fmt.Errorf("catalog validate: %w", err)
			}
			if _, err := catalog.NewSnapshot(items); err != nil {
				return fmt.Errorf("catalog validate: %s: %w", path, err)
			}

			counts := map[models.ItemKind]int{}
			for _, item := range items {
				counts[item.Kind]++
			}
			fmt.Printf("%s: %d items valid (%d establishments, %d events, %d services)\n", path, len(items),
				counts[models.KindEstablishment], counts[models.KindEvent], counts[models.KindService])
			return nil
		},
	}
}

func catalogImportCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import a catalog file into the SQLite catalog, replacing its content",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && cfg.Catalog.Source == config.CatalogSQLite {
				return fmt.Errorf("catalog import: a source file is required when the configured catalog is sqlite")
			}
			path := catalogFile(args)
			items, err := catalog.ReadFile(path)
			if err != nil {
				return fmt.Errorf("catalog import: %w", err)
			}

			src, err := catalog.OpenSQLite(dbPath)
			if err != nil {
				return fmt.Errorf("catalog import: %w", err)
			}
			defer func() { _ = src.Close() }()

			if err := src.ReplaceAll(cmd.Context(), items); err != nil {
				return fmt.Errorf("catalog import: %w", err)
			}
			n, err := src.Count(cmd.Context())
			if err != nil {
				return fmt.Errorf("catalog import: %w", err)
			}
			fmt.Printf("Imported %d items from %s into %s\n", n, path, dbPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "catalog.db", "SQLite database to import into")
	return cmd
}

func catalogListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the venues of the configured catalog source",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			src, closeSrc, err := newCatalogSource(cmd.Context(), logger)
			if err != nil {
				return fmt.Errorf("catalog list: %w", err)
			}
			defer closeSrc()

			snap, err := src.Snapshot(cmd.Context())
			if err != nil {
				return fmt.Errorf("catalog list: %w", err)
			}
			for _, item := range snap.Items {
				rating := "-"
				if item.Rating != nil {
					rating = fmt.Sprintf("%.1f", *item.Rating)
				}
				fmt.Printf("%-20s %-13s %-28s %-12s %s\n", truncate(item.ID, 20), item.Kind, truncate(item.Name, 28), item.Category, rating)
			}
			fmt.Printf("\n%d items\n", len(snap.Items))
			return nil
		},
	}
}
