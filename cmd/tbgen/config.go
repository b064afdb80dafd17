// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/vhdl-tbgen/pkg/types"
)

// setDefaults seeds v with every key of types.Config so that environment
// variables and Unmarshal see the full key set.
func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()
	v.SetDefault("clock_period", d.ClockPeriod)
	v.SetDefault("reset_delay", d.ResetDelay)
	v.SetDefault("stimulus_wait", d.StimulusWait)
	v.SetDefault("default_clock_name", d.DefaultClockName)
	v.SetDefault("default_reset_name", d.DefaultResetName)
	v.SetDefault("output_prefix", d.OutputPrefix)
	v.SetDefault("default_libraries", d.DefaultLibraries)
	v.SetDefault("strict_terminator", d.StrictTerminator)
	v.SetDefault("catalog.enabled", d.Catalog.Enabled)
	v.SetDefault("catalog.dir", d.Catalog.Dir)
	v.SetDefault("simulator.enabled", d.Simulator.Enabled)
	v.SetDefault("simulator.std", d.Simulator.Std)
}

// loadConfig decodes and validates the effective configuration.
func loadConfig(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// configView is the printable form of types.Config, with durations as
// strings that viper reads back.
type configView struct {
	ClockPeriod      string                `yaml:"clock_period"`
	ResetDelay       string                `yaml:"reset_delay"`
	StimulusWait     int                   `yaml:"stimulus_wait"`
	DefaultClockName string                `yaml:"default_clock_name"`
	DefaultResetName string                `yaml:"default_reset_name"`
	OutputPrefix     string                `yaml:"output_prefix"`
	DefaultLibraries string                `yaml:"default_libraries"`
	StrictTerminator bool                  `yaml:"strict_terminator"`
	Catalog          types.CatalogConfig   `yaml:"catalog"`
	Simulator        types.SimulatorConfig `yaml:"simulator"`
}

func newConfigView(cfg types.Config) configView {
	return configView{
		ClockPeriod:      cfg.ClockPeriod.String(),
		ResetDelay:       cfg.ResetDelay.String(),
		StimulusWait:     cfg.StimulusWait,
		DefaultClockName: cfg.DefaultClockName,
		DefaultResetName: cfg.DefaultResetName,
		OutputPrefix:     cfg.OutputPrefix,
		DefaultLibraries: cfg.DefaultLibraries,
		StrictTerminator: cfg.StrictTerminator,
		Catalog:          cfg.Catalog,
		Simulator:        cfg.Simulator,
	}
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Config prints the configuration tbgen would use after merging defaults,
the config file, TBGEN_* environment variables and flags. The output is a
valid tbgen.yaml.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(newConfigView(cfg))
		if err != nil {
			return fmt.Errorf("marshaling configuration: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
