// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"regexp"
	"time"
)

// identifierPattern matches a basic VHDL identifier.
var identifierPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Built-in defaults.
const (
	DefaultClockPeriod       = 10 * time.Nanosecond
	DefaultResetDelay        = 40 * time.Nanosecond
	DefaultStimulusWait      = 3
	DefaultClockName         = "clk"
	DefaultResetName         = "rst_n"
	DefaultOutputPrefix      = "tb_"
	DefaultCatalogDir        = ".tbgen"
	DefaultSimulatorStd      = "08"
	DefaultLibrariesBlock    = "library ieee;\n\tuse ieee.std_logic_1164.all;\n\tuse ieee.numeric_std.all;"
	DefaultTestbenchArchName = "behavioral"
)

// Config holds every tunable of a generation run. It is passed by value into
// the extractor and the renderer, so runs with different settings do not
// interfere.
type Config struct {
	// ClockPeriod is the value of the c_CLK_PERIOD constant (default 10ns).
	ClockPeriod time.Duration `json:"clock_period" yaml:"clock_period" mapstructure:"clock_period"`

	// ResetDelay is how long reset stays asserted at the start of the
	// stimulus process (default 40ns).
	ResetDelay time.Duration `json:"reset_delay" yaml:"reset_delay" mapstructure:"reset_delay"`

	// StimulusWait is the number of clock periods the stimulus process waits
	// before ending the run (default 3).
	StimulusWait int `json:"stimulus_wait" yaml:"stimulus_wait" mapstructure:"stimulus_wait"`

	// DefaultClockName is used when no input port looks like a clock.
	DefaultClockName string `json:"default_clock_name" yaml:"default_clock_name" mapstructure:"default_clock_name"`

	// DefaultResetName is used when no input port looks like a reset.
	DefaultResetName string `json:"default_reset_name" yaml:"default_reset_name" mapstructure:"default_reset_name"`

	// OutputPrefix is prepended to the entity name and the output file name.
	OutputPrefix string `json:"output_prefix" yaml:"output_prefix" mapstructure:"output_prefix"`

	// DefaultLibraries is emitted verbatim when the source has no library clauses.
	DefaultLibraries string `json:"default_libraries" yaml:"default_libraries" mapstructure:"default_libraries"`

	// StrictTerminator restores the legacy acceptance rule: a declaration is
	// only recognised when its line ends with ";" and does not close the list,
	// so the last port or generic before ");" is dropped.
	StrictTerminator bool `json:"strict_terminator" yaml:"strict_terminator" mapstructure:"strict_terminator"`

	Catalog   CatalogConfig   `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
	Simulator SimulatorConfig `json:"simulator" yaml:"simulator" mapstructure:"simulator"`
}

// CatalogConfig controls the SQLite record of generated testbenches.
type CatalogConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Dir holds catalog.db (default ".tbgen").
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`
}

// SimulatorConfig controls the post-generation analysis check.
type SimulatorConfig struct {
	// Enabled runs the check after every generated testbench.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Std is the VHDL revision passed to the simulator ("93", "02", "08").
	Std string `json:"std" yaml:"std" mapstructure:"std"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		ClockPeriod:      DefaultClockPeriod,
		ResetDelay:       DefaultResetDelay,
		StimulusWait:     DefaultStimulusWait,
		DefaultClockName: DefaultClockName,
		DefaultResetName: DefaultResetName,
		OutputPrefix:     DefaultOutputPrefix,
		DefaultLibraries: DefaultLibrariesBlock,
		Catalog: CatalogConfig{
			Dir: DefaultCatalogDir,
		},
		Simulator: SimulatorConfig{
			Std: DefaultSimulatorStd,
		},
	}
}

// Validate reports settings that would produce a broken testbench or
// overwrite the source file.
func (c Config) Validate() error {
	if c.ClockPeriod <= 0 {
		return fmt.Errorf("clock_period must be positive, got %s", c.ClockPeriod)
	}
	if c.ResetDelay < 0 {
		return fmt.Errorf("reset_delay must not be negative, got %s", c.ResetDelay)
	}
	if c.StimulusWait < 0 {
		return fmt.Errorf("stimulus_wait must not be negative, got %d", c.StimulusWait)
	}
	if c.OutputPrefix == "" {
		return fmt.Errorf("output_prefix must not be empty")
	}
	for key, name := range map[string]string{
		"output_prefix":      c.OutputPrefix,
		"default_clock_name": c.DefaultClockName,
		"default_reset_name": c.DefaultResetName,
	} {
		if !identifierPattern.MatchString(name) {
			return fmt.Errorf("%s %q is not a VHDL identifier", key, name)
		}
	}
	return nil
}
