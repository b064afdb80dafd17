// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/vhdl-tbgen/internal/extract"
	"github.com/pdiddy/vhdl-tbgen/internal/render"
	"github.com/pdiddy/vhdl-tbgen/pkg/types"
)

// inspection is what inspect prints: the scraped descriptor and the clock
// and reset the testbench would drive.
type inspection struct {
	types.ModuleDescriptor `yaml:",inline"`
	Control                types.ControlSignals `json:"control_signals" yaml:"control_signals"`
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.vhd>",
	Short: "Print the interface scraped from a source file",
	Long: `Inspect runs the extractor on a source file and prints the result as
YAML or JSON: header lines, library clauses, entity name, generics, ports,
architecture names and the resolved clock and reset signals. Nothing is
written to disk.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	format, _ := cmd.Flags().GetString("format")

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	d, err := extract.New(cfg).ExtractFile(args[0])
	if err != nil {
		return err
	}
	if d.EntityName == "" {
		return &render.MissingEntityError{Source: args[0]}
	}

	return writeInspection(cmd.OutOrStdout(), inspection{
		ModuleDescriptor: d,
		Control:          d.ControlSignals(cfg.DefaultClockName, cfg.DefaultResetName),
	}, format)
}

func writeInspection(w io.Writer, in inspection, format string) error {
	switch format {
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(in); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(in)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
}

func init() {
	inspectCmd.Flags().String("format", "yaml", "output format: yaml or json")

	rootCmd.AddCommand(inspectCmd)
}
