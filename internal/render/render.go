// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns a ModuleDescriptor into testbench source text.
// Output is a fixed template filled from the descriptor and the
// configuration; the same inputs always produce the same bytes.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/vhdl-tbgen/pkg/types"
)

const (
	// signalPrefix marks the testbench signal mirroring a port.
	signalPrefix = "s_"

	clockPeriodConst = "c_CLK_PERIOD"
	instanceLabel    = "uut"
)

// groupLabels names port groups in generated comments.
var groupLabels = map[types.Direction]string{
	types.DirIn:     "input",
	types.DirBuffer: "buffer",
	types.DirInout:  "inout",
	types.DirOut:    "output",
}

// MissingEntityError is returned when the descriptor has no entity name,
// i.e. the source contained no entity declaration.
type MissingEntityError struct {
	// Source is the file the descriptor came from, if known.
	Source string
}

func (e *MissingEntityError) Error() string {
	if e.Source == "" {
		return "no entity declaration found"
	}
	return fmt.Sprintf("no entity declaration found in %s", e.Source)
}

// Renderer produces testbench text.
type Renderer struct {
	cfg types.Config
}

// New returns a Renderer using cfg for names, prefixes and timings.
func New(cfg types.Config) *Renderer {
	return &Renderer{cfg: cfg}
}

// Render returns the complete testbench for d. It refuses descriptors
// without an entity name.
func (r *Renderer) Render(d types.ModuleDescriptor) (string, error) {
	if d.EntityName == "" {
		return "", &MissingEntityError{}
	}

	tbName := r.cfg.OutputPrefix + d.EntityName
	ctl := d.ControlSignals(r.cfg.DefaultClockName, r.cfg.DefaultResetName)
	groups := d.PortGroups()

	var b strings.Builder
	r.writePreamble(&b, d)

	// Testbench entity.
	fmt.Fprintf(&b, "entity %s is\n", tbName)
	writeGenericClause(&b, d.Generics, "\t")
	fmt.Fprintf(&b, "end %s;\n\n", tbName)

	fmt.Fprintf(&b, "architecture %s of %s is\n\n", types.DefaultTestbenchArchName, tbName)

	// Component mirror of the unit under test.
	b.WriteString("\t-- component declarations\n")
	fmt.Fprintf(&b, "\tcomponent %s\n", d.EntityName)
	writeGenericClause(&b, d.Generics, "\t")
	if len(d.Ports) > 0 {
		var ports list
		for _, g := range groups {
			items := make([]string, len(g.Ports))
			for i, p := range g.Ports {
				items[i] = fmt.Sprintf("%s\t\t: %s\t%s", p.Name, p.Direction, p.Type)
			}
			ports.group(groupLabels[g.Direction]+" ports", items)
		}
		b.WriteString("\tport (\n")
		ports.write(&b, "\t\t", ";", "")
		b.WriteString("\t);\n")
	}
	b.WriteString("\tend component;\n\n")

	b.WriteString("\t-- clock period definition\n")
	fmt.Fprintf(&b, "\tconstant %s : time := %s;\n\n", clockPeriodConst, vhdlTime(r.cfg.ClockPeriod))

	r.writeSignals(&b, groups, ctl)

	b.WriteString("begin\n")
	writeInstance(&b, d, groups)
	r.writeProcesses(&b, ctl)
	fmt.Fprintf(&b, "end %s;\n", types.DefaultTestbenchArchName)

	return b.String(), nil
}

// writePreamble emits the header comments and library clauses, falling back
// to the default library block when the source had none.
func (r *Renderer) writePreamble(b *strings.Builder, d types.ModuleDescriptor) {
	for _, line := range d.HeaderLines {
		b.WriteString(line + "\n")
	}
	if len(d.LibraryClauses) > 0 {
		for _, line := range d.LibraryClauses {
			b.WriteString(line + "\n")
		}
	} else {
		b.WriteString(r.cfg.DefaultLibraries + "\n")
	}
	b.WriteString("\n")
}

func writeGenericClause(b *strings.Builder, generics []types.Generic, indent string) {
	if len(generics) == 0 {
		return
	}
	var l list
	for _, g := range generics {
		l.add(fmt.Sprintf("%s : %s := %s", g.Name, g.Type, g.Default()))
	}
	b.WriteString(indent + "generic (\n")
	l.write(b, indent+"\t", ";", "")
	b.WriteString(indent + ");\n")
}

// writeSignals declares one signal per port, grouped like the port clause.
// Clock and reset signals that do not mirror a port are synthesized at the
// head of the input group, unless a port of another direction already
// mirrors to the same name.
func (r *Renderer) writeSignals(b *strings.Builder, groups []types.PortGroup, ctl types.ControlSignals) {
	var inputs []string
	if ctl.ClockSynthesized && !hasPort(groups, ctl.Clock) {
		inputs = append(inputs, fmt.Sprintf("signal %s%s\t\t: std_logic := '0'", signalPrefix, ctl.Clock))
	}
	if ctl.ResetSynthesized && !hasPort(groups, ctl.Reset) {
		inputs = append(inputs, fmt.Sprintf("signal %s%s\t\t: std_logic := '0'", signalPrefix, ctl.Reset))
	}
	for _, g := range groups {
		if g.Direction == types.DirIn {
			inputs = append(inputs, signalDecls(g.Ports)...)
		}
	}

	var signals list
	signals.group(groupLabels[types.DirIn]+" signals", inputs)
	for _, g := range groups {
		if g.Direction != types.DirIn {
			signals.group(groupLabels[g.Direction]+" signals", signalDecls(g.Ports))
		}
	}

	signals.write(b, "\t", ";", ";")
	b.WriteString("\n")
}

// hasPort reports whether a port is named name. VHDL identifiers are
// case-insensitive.
func hasPort(groups []types.PortGroup, name string) bool {
	for _, g := range groups {
		for _, p := range g.Ports {
			if strings.EqualFold(p.Name, name) {
				return true
			}
		}
	}
	return false
}

func signalDecls(ports []types.Port) []string {
	decls := make([]string, len(ports))
	for i, p := range ports {
		decls[i] = fmt.Sprintf("signal %s%s\t\t: %s", signalPrefix, p.Name, p.Type)
	}
	return decls
}

// writeInstance binds the unit under test to the first architecture found
// and maps every port to its mirrored signal.
func writeInstance(b *strings.Builder, d types.ModuleDescriptor, groups []types.PortGroup) {
	b.WriteString("\t-- instantiation of the unit under test\n")
	target := "work." + d.EntityName
	if arch := d.Architecture(); arch != "" {
		target += "(" + arch + ")"
	}
	fmt.Fprintf(b, "\t%s : entity %s", instanceLabel, target)

	if len(d.Generics) > 0 {
		var gm list
		for _, g := range d.Generics {
			gm.add(g.Name + " => " + g.Name)
		}
		b.WriteString("\n\tgeneric map (\n")
		gm.write(b, "\t\t", ",", "")
		b.WriteString("\t)")
	}

	if len(d.Ports) > 0 {
		var pm list
		for _, g := range groups {
			items := make([]string, len(g.Ports))
			for i, p := range g.Ports {
				items[i] = p.Name + "\t=> " + signalPrefix + p.Name
			}
			pm.group(groupLabels[g.Direction]+" ports", items)
		}
		b.WriteString("\n\tport map (\n")
		pm.write(b, "\t\t", ",", "")
		b.WriteString("\t)")
	}
	b.WriteString(";\n\n")
}

// writeProcesses emits the free-running clock and the stimulus stub. The
// clock process never terminates; the stimulus process ends the simulation
// with a failure report once its schedule has run.
func (r *Renderer) writeProcesses(b *strings.Builder, ctl types.ControlSignals) {
	clk := signalPrefix + ctl.Clock
	rst := signalPrefix + ctl.Reset

	b.WriteString("\t-- clock process definitions\n")
	b.WriteString("\tp_clk_process : process\n")
	b.WriteString("\tbegin\n")
	fmt.Fprintf(b, "\t\t%s <= '0';\n", clk)
	fmt.Fprintf(b, "\t\twait for %s/2;\n", clockPeriodConst)
	fmt.Fprintf(b, "\t\t%s <= '1';\n", clk)
	fmt.Fprintf(b, "\t\twait for %s/2;\n", clockPeriodConst)
	b.WriteString("\tend process;\n\n")

	b.WriteString("\t-- stimulus process\n")
	b.WriteString("\tp_stim : process\n")
	b.WriteString("\tbegin\n")
	fmt.Fprintf(b, "\t\t%s <= '0';\n", rst)
	fmt.Fprintf(b, "\t\twait for %s;\n", vhdlTime(r.cfg.ResetDelay))
	fmt.Fprintf(b, "\t\t%s <= '1';\n\n", rst)
	fmt.Fprintf(b, "\t\twait for %s;\n\n", clockPeriodConst)
	b.WriteString("\t\t-- add code here\n\n")
	b.WriteString("\t\t-- nothing else to do..\n")
	fmt.Fprintf(b, "\t\twait for %d * %s;\n\n", r.cfg.StimulusWait, clockPeriodConst)
	b.WriteString("\t\treport \"[msg] Testbench end.\" severity failure;\n")
	b.WriteString("\tend process;\n\n")
}

// vhdlTime formats d as a VHDL physical literal in the largest unit that
// represents it exactly.
func vhdlTime(d time.Duration) string {
	units := []struct {
		unit time.Duration
		name string
	}{
		{time.Second, "sec"},
		{time.Millisecond, "ms"},
		{time.Microsecond, "us"},
	}
	for _, u := range units {
		if d != 0 && d%u.unit == 0 {
			return fmt.Sprintf("%d %s", d/u.unit, u.name)
		}
	}
	return fmt.Sprintf("%d ns", d.Nanoseconds())
}
