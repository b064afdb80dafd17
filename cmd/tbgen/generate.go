// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/vhdl-tbgen/internal/catalog"
	"github.com/pdiddy/vhdl-tbgen/internal/generate"
	"github.com/pdiddy/vhdl-tbgen/internal/simulator"
	"github.com/pdiddy/vhdl-tbgen/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate <file.vhd>...",
	Short: "Generate testbenches for several source files",
	Long: `Generate writes a testbench for each source file in turn, printing one
status line per file (generated, skipped, failed) and a batch summary. A
failure on one file does not stop the others; the command exits non-zero if
any file failed.

With --check each testbench is analyzed together with its source by ghdl or
nvc, whichever is found first on PATH.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	g, cleanup, err := newGenerator(cmd, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := g.GenerateBatch(cmd.Context(), args, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed", result.Failed)
	}
	return nil
}

// addGenerateFlags registers the flags shared by the root command and
// generate.
func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().String("output-dir", "", "write testbenches into this directory instead of beside the source")
	cmd.Flags().Bool("check", false, "analyze source and testbench with ghdl or nvc after writing")
}

// newGenerator builds a Generator from cfg and the command's flags, opening
// the catalog and detecting a simulator when enabled. The returned cleanup
// must be called when done.
func newGenerator(cmd *cobra.Command, cfg types.Config) (*generate.Generator, func(), error) {
	outputDir, _ := cmd.Flags().GetString("output-dir")
	check, _ := cmd.Flags().GetBool("check")
	skipExisting, _ := cmd.Flags().GetBool("skip-existing")
	verbose, _ := cmd.Flags().GetBool("verbose")

	opts := generate.Options{
		OutputDir:    outputDir,
		SkipExisting: skipExisting,
		Verbose:      verbose,
	}
	cleanup := func() {}

	if check || cfg.Simulator.Enabled {
		sim, err := simulator.Detect(cfg.Simulator.Std)
		if err != nil {
			return nil, cleanup, err
		}
		opts.Checker = sim
	}

	if cfg.Catalog.Enabled {
		store, err := catalog.NewStore(cfg.Catalog)
		if err != nil {
			return nil, cleanup, err
		}
		opts.Recorder = store
		cleanup = func() { store.Close() }
	}

	return generate.New(cfg, opts), cleanup, nil
}

func init() {
	addGenerateFlags(generateCmd)
	generateCmd.Flags().Bool("skip-existing", false, "leave existing testbenches untouched")
	generateCmd.Flags().BoolP("verbose", "v", false, "print the scraped interface of each file")

	rootCmd.AddCommand(generateCmd)
}
