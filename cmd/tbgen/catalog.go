// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/vhdl-tbgen/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List or export the record of generated testbenches",
	Long: `Catalog reads the SQLite history written when catalog.enabled is set.
Each record holds the entity, source and output paths, architecture, clock,
reset and ports of one generated testbench.`,
}

// --- list subcommand ---

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List generated testbenches, newest first",
	Args:  cobra.NoArgs,
	RunE:  runCatalogList,
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(cmd.Context(), listOptsFromFlags(cmd))
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatCatalogList(cmd.OutOrStdout(), records, jsonOutput)
}

func formatCatalogList(w io.Writer, records []catalog.Record, jsonOutput bool) error {
	if jsonOutput {
		if records == nil {
			records = []catalog.Record{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "No testbenches recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-19s  %-20s  %-5s  %-12s  %s\n", "Generated", "Entity", "Ports", "Clock", "Output")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, r := range records {
		entity := r.Entity
		if len(entity) > 20 {
			entity = entity[:17] + "..."
		}
		fmt.Fprintf(w, "%-19s  %-20s  %-5d  %-12s  %s\n",
			r.GeneratedAt.Format("2006-01-02 15:04:05"), entity, len(r.Ports), r.Clock, r.OutputPath)
	}
	fmt.Fprintf(w, "\n%d records\n", len(records))
	return nil
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to YAML or JSON",
	Long: `Export writes every record (or those of one entity) to export.yaml or
export.json inside the catalog directory.`,
	Args: cobra.NoArgs,
	RunE: runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	opts := listOptsFromFlags(cmd)

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(cmd.Context(), opts)
	case "json":
		path, err = store.ExportJSON(cmd.Context(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	return nil
}

// --- shared helpers ---

func openCatalog() (*catalog.Store, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}
	return catalog.NewStore(cfg.Catalog)
}

func listOptsFromFlags(cmd *cobra.Command) catalog.ListOptions {
	entity, _ := cmd.Flags().GetString("entity")
	limit, _ := cmd.Flags().GetInt("limit")
	return catalog.ListOptions{Entity: entity, Limit: limit}
}

func init() {
	catalogCmd.PersistentFlags().String("entity", "", "only records for this entity")

	catalogListCmd.Flags().Int("limit", 0, "maximum records (0 = default of 50, -1 = all)")
	catalogListCmd.Flags().Bool("json", false, "output records as JSON")

	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	catalogExportCmd.Flags().Int("limit", 0, "maximum records to export (0 = all)")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogExportCmd)

	rootCmd.AddCommand(catalogCmd)
}
