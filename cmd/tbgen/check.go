// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/vhdl-tbgen/internal/outpath"
	"github.com/pdiddy/vhdl-tbgen/internal/simulator"
)

var checkCmd = &cobra.Command{
	Use:   "check <file.vhd>",
	Short: "Analyze a source file and its testbench with ghdl or nvc",
	Long: `Check locates the testbench previously generated for a source file and
runs the first simulator found on PATH (ghdl, then nvc) in analysis mode over
both files, using a throwaway work library. It fails if no simulator is
installed or analysis reports errors.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	outputDir, _ := cmd.Flags().GetString("output-dir")

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	source := args[0]
	tb, err := outpath.Derive(source, cfg.OutputPrefix, outputDir)
	if err != nil {
		return err
	}
	if _, err := os.Stat(tb); err != nil {
		return fmt.Errorf("testbench for %s not found at %s: run tbgen %s first", source, tb, source)
	}

	sim, err := simulator.Detect(cfg.Simulator.Std)
	if err != nil {
		return err
	}
	if err := sim.Analyze(source, tb); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ok: %s analyzed %s and %s\n", sim.Name(), source, tb)
	return nil
}

func init() {
	checkCmd.Flags().String("output-dir", "", "directory the testbench was written to")

	rootCmd.AddCommand(checkCmd)
}
