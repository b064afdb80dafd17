// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data model shared by the extractor, the renderer,
// the catalog, and the CLI.
package types

import "strings"

// Direction is the mode of an entity port.
type Direction string

const (
	DirIn     Direction = "in"
	DirOut    Direction = "out"
	DirInout  Direction = "inout"
	DirBuffer Direction = "buffer"
)

// GroupOrder is the order in which port groups are emitted into a testbench.
var GroupOrder = []Direction{DirIn, DirBuffer, DirInout, DirOut}

// ParseDirection maps a direction keyword to a Direction, ignoring case.
// The second result is false for anything outside in/out/inout/buffer.
func ParseDirection(s string) (Direction, bool) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case DirIn, DirOut, DirInout, DirBuffer:
		return d, true
	default:
		return "", false
	}
}

// Generic is a compile-time parameter of an entity.
type Generic struct {
	Name         string `json:"name" yaml:"name"`
	Type         string `json:"type" yaml:"type"`
	DefaultValue string `json:"default_value" yaml:"default_value"`

	// Unit is the physical unit following the default value (e.g. "ns"),
	// empty when the declaration has none.
	Unit string `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// Default returns the default value followed by its unit, if any.
func (g Generic) Default() string {
	if g.Unit == "" {
		return g.DefaultValue
	}
	return g.DefaultValue + " " + g.Unit
}

// Port is a signal in an entity interface.
type Port struct {
	Name      string    `json:"name" yaml:"name"`
	Direction Direction `json:"direction" yaml:"direction"`
	Type      string    `json:"type" yaml:"type"`
}

// ModuleDescriptor is everything the scraper learned about one entity.
// It is built in a single pass over a source file and not modified after.
type ModuleDescriptor struct {
	// HeaderLines are the comment lines that precede the entity declaration.
	HeaderLines []string `json:"header_lines" yaml:"header_lines"`

	// LibraryClauses are raw library and use clauses. An empty list makes the
	// renderer substitute its default library block.
	LibraryClauses []string `json:"library_clauses" yaml:"library_clauses"`

	// EntityName is empty when no entity declaration was found.
	EntityName string `json:"entity_name" yaml:"entity_name"`

	Generics []Generic `json:"generics" yaml:"generics"`
	Ports    []Port    `json:"ports" yaml:"ports"`

	// ArchitectureNames lists architectures declared after the entity closes.
	ArchitectureNames []string `json:"architecture_names" yaml:"architecture_names"`
}

// PortGroup is the ports of a single direction, in declaration order.
type PortGroup struct {
	Direction Direction
	Ports     []Port
}

// PortGroups partitions the ports by direction in GroupOrder. Groups with no
// ports are omitted. The partition is stable: each group keeps declaration
// order, and every port appears in exactly one group.
func (d ModuleDescriptor) PortGroups() []PortGroup {
	byDir := make(map[Direction][]Port, len(GroupOrder))
	for _, p := range d.Ports {
		byDir[p.Direction] = append(byDir[p.Direction], p)
	}

	var groups []PortGroup
	for _, dir := range GroupOrder {
		if ports := byDir[dir]; len(ports) > 0 {
			groups = append(groups, PortGroup{Direction: dir, Ports: ports})
		}
	}
	return groups
}

// Architecture returns the first architecture name, or "" when none was found.
func (d ModuleDescriptor) Architecture() string {
	if len(d.ArchitectureNames) == 0 {
		return ""
	}
	return d.ArchitectureNames[0]
}

// ControlSignals names the clock and reset a testbench drives.
type ControlSignals struct {
	Clock string `json:"clock" yaml:"clock"`
	Reset string `json:"reset" yaml:"reset"`

	// ClockSynthesized is true when no input port looked like a clock and
	// Clock holds the configured default instead.
	ClockSynthesized bool `json:"clock_synthesized" yaml:"clock_synthesized"`
	ResetSynthesized bool `json:"reset_synthesized" yaml:"reset_synthesized"`
}

// ControlSignals picks the clock and reset among the input ports. The first
// input whose name contains "clk" or "clock" is the clock, the first containing
// "rst" or "reset" is the reset; matching ignores case and the same port may
// fill both roles. Missing roles fall back to the given defaults.
func (d ModuleDescriptor) ControlSignals(defaultClock, defaultReset string) ControlSignals {
	var (
		cs                   ControlSignals
		haveClock, haveReset bool
	)
	for _, p := range d.Ports {
		if p.Direction != DirIn {
			continue
		}
		name := strings.ToLower(p.Name)
		if !haveClock && (strings.Contains(name, "clk") || strings.Contains(name, "clock")) {
			cs.Clock = p.Name
			haveClock = true
		}
		if !haveReset && (strings.Contains(name, "rst") || strings.Contains(name, "reset")) {
			cs.Reset = p.Name
			haveReset = true
		}
	}
	if !haveClock {
		cs.Clock = defaultClock
		cs.ClockSynthesized = true
	}
	if !haveReset {
		cs.Reset = defaultReset
		cs.ResetSynthesized = true
	}
	return cs
}
