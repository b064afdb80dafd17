// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the tbgen CLI, which generates VHDL
// testbench skeletons from entity declarations.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/vhdl-tbgen/internal/outpath"
	"github.com/pdiddy/vhdl-tbgen/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// debugArg is the literal second argument that appends the VHDL extension
// to the first.
const debugArg = "debug"

// UnrecognizedArgumentsError reports a root invocation that is neither
// "<file>" nor "<file> debug".
type UnrecognizedArgumentsError struct {
	Args []string
}

func (e *UnrecognizedArgumentsError) Error() string {
	if len(e.Args) == 0 {
		return "missing source file argument"
	}
	return fmt.Sprintf("unrecognized arguments: %s", strings.Join(e.Args, " "))
}

// sourceFromArgs resolves the root command arguments to a source path.
func sourceFromArgs(args []string) (string, error) {
	switch {
	case len(args) == 1:
		return args[0], nil
	case len(args) == 2 && args[1] == debugArg:
		return outpath.WithDebugExtension(args[0]), nil
	default:
		return "", &UnrecognizedArgumentsError{Args: args}
	}
}

// rootCmd generates one testbench, keeping the historical
// "tbgen <file> [debug]" interface.
var rootCmd = &cobra.Command{
	Use:   "tbgen <file.vhd> [debug]",
	Short: "Generate a VHDL testbench skeleton from an entity declaration",
	Long: `tbgen scrapes the entity declaration of a VHDL source file (header
comments, library clauses, generics, ports, architecture names) and writes a
companion testbench next to it: a component declaration, one signal per port,
an instance of the unit under test, a clock process and a stimulus stub.

Given "counter.vhd" it writes "tb_counter.vhd". Passing "debug" as the second
argument appends ".vhd" to the first, so "tbgen counter debug" reads
"counter.vhd".

Subcommands cover batch generation, inspection of the scraped interface, the
generation catalog and an optional simulator check.`,
	Args: func(cmd *cobra.Command, args []string) error {
		_, err := sourceFromArgs(args)
		return err
	},
	RunE: runRoot,
}

func runRoot(cmd *cobra.Command, args []string) error {
	source, err := sourceFromArgs(args)
	if err != nil {
		return err
	}
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

	out, err := g.File(cmd.Context(), source)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "generated: %s\n", out)
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./tbgen.yaml or ~/.config/tbgen/tbgen.yaml)")
	rootCmd.PersistentFlags().String("prefix", types.DefaultOutputPrefix, "prefix for the testbench entity and file name")
	rootCmd.PersistentFlags().Duration("clock-period", types.DefaultClockPeriod, "clock period of the generated testbench")
	rootCmd.PersistentFlags().Duration("reset-delay", types.DefaultResetDelay, "time reset stays asserted")
	rootCmd.PersistentFlags().Bool("strict-terminator", false, "drop a declaration that shares its line with the closing \");\"")
	rootCmd.PersistentFlags().String("catalog-dir", types.DefaultCatalogDir, "directory holding the generation catalog")

	for key, flag := range map[string]string{
		"output_prefix":     "prefix",
		"clock_period":      "clock-period",
		"reset_delay":       "reset-delay",
		"strict_terminator": "strict-terminator",
		"catalog.dir":       "catalog-dir",
	} {
		_ = viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag))
	}

	addGenerateFlags(rootCmd)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("tbgen")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "tbgen"))
		}
	}

	setDefaults(viper.GetViper())
	viper.SetEnvPrefix("TBGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
