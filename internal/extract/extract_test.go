// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/vhdl-tbgen/pkg/types"
)

const counterSrc = `-- counter.vhd
-- Free-running up counter.
library ieee;
	use ieee.std_logic_1164.all;
	use ieee.numeric_std.all;

entity counter is
	generic (
		WIDTH : integer := 8
	);
	port (
		clk   : in  std_logic;
		rst_n : in  std_logic;
		count : out std_logic_vector(7 downto 0)
	);
end counter;

architecture rtl of counter is
begin
	-- not a header line
end rtl;

architecture sim of counter is
begin
end sim;
`

func extractString(t *testing.T, cfg types.Config, src string) types.ModuleDescriptor {
	t.Helper()
	d, err := New(cfg).Extract(strings.NewReader(src))
	require.NoError(t, err)
	return d
}

func TestExtract_Counter(t *testing.T) {
	d := extractString(t, types.DefaultConfig(), counterSrc)

	assert.Equal(t, []string{"-- counter.vhd", "-- Free-running up counter."}, d.HeaderLines)
	assert.Equal(t, []string{
		"library ieee;",
		"\tuse ieee.std_logic_1164.all;",
		"\tuse ieee.numeric_std.all;",
	}, d.LibraryClauses)
	assert.Equal(t, "counter", d.EntityName)
	assert.Equal(t, []types.Generic{
		{Name: "WIDTH", Type: "integer", DefaultValue: "8"},
	}, d.Generics)
	assert.Equal(t, []types.Port{
		{Name: "clk", Direction: types.DirIn, Type: "std_logic"},
		{Name: "rst_n", Direction: types.DirIn, Type: "std_logic"},
		{Name: "count", Direction: types.DirOut, Type: "std_logic_vector(7 downto 0)"},
	}, d.Ports)
	assert.Equal(t, []string{"rtl", "sim"}, d.ArchitectureNames)
}

func TestExtract_Idempotent(t *testing.T) {
	first := extractString(t, types.DefaultConfig(), counterSrc)
	second := extractString(t, types.DefaultConfig(), counterSrc)
	assert.Equal(t, first, second)
}

func TestExtract_NoEntity(t *testing.T) {
	src := "-- just a package\nlibrary ieee;\npackage p is\nend package;\n"
	d := extractString(t, types.DefaultConfig(), src)

	assert.Empty(t, d.EntityName)
	assert.Empty(t, d.Ports)
	assert.Empty(t, d.ArchitectureNames)
	assert.Equal(t, []string{"-- just a package"}, d.HeaderLines)
}

func TestExtract_FirstEntityWins(t *testing.T) {
	src := `entity first is
	port (a : in bit);
end entity;
entity second is
	port (b : in bit);
end entity;
architecture rtl of first is
begin
end rtl;
`
	d := extractString(t, types.DefaultConfig(), src)

	assert.Equal(t, "first", d.EntityName)
	require.Len(t, d.Ports, 1)
	assert.Equal(t, "a", d.Ports[0].Name)
	assert.Equal(t, []string{"rtl"}, d.ArchitectureNames)
}

func TestExtract_ArchitectureBeforeEntityEndIgnored(t *testing.T) {
	src := "entity e is\n  port (a : in bit);\narchitecture early of e is\nend e;\narchitecture late of e is\n"
	d := extractString(t, types.DefaultConfig(), src)
	assert.Equal(t, []string{"late"}, d.ArchitectureNames)
}

func TestExtract_HeaderOnlyBeforeEntity(t *testing.T) {
	src := "-- top\nentity e is\n-- inside\nend e;\n-- after\n"
	d := extractString(t, types.DefaultConfig(), src)
	assert.Equal(t, []string{"-- top"}, d.HeaderLines)
}

func TestExtract_AllDirections(t *testing.T) {
	src := `entity mixed is
	port (
		o1 : out std_logic;
		i1 : IN std_logic;
		b1 : buffer std_logic;
		io1 : inout std_logic_vector(3 downto 0);
		i2 : in unsigned(3 downto 0) := (others => '0');
		o2 : out integer range 0 to 8);
end mixed;
`
	d := extractString(t, types.DefaultConfig(), src)
	require.Len(t, d.Ports, 6)

	got := make([]string, len(d.Ports))
	for i, p := range d.Ports {
		got[i] = p.Name + ":" + string(p.Direction) + ":" + p.Type
	}
	assert.Equal(t, []string{
		"o1:out:std_logic",
		"i1:in:std_logic",
		"b1:buffer:std_logic",
		"io1:inout:std_logic_vector(3 downto 0)",
		"i2:in:unsigned(3 downto 0)",
		"o2:out:integer range 0 to 8",
	}, got)
}

func TestExtract_GenericsWithUnits(t *testing.T) {
	src := `entity timed is
	generic (
		CLK_PERIOD : time := 10 ns;
		MODE : string := "fast";
		DEPTH : natural range 0 to 255 := 16;
		OFFSET : integer := -1);
	port (clk : in std_logic);
end timed;
`
	d := extractString(t, types.DefaultConfig(), src)
	assert.Equal(t, []types.Generic{
		{Name: "CLK_PERIOD", Type: "time", DefaultValue: "10", Unit: "ns"},
		{Name: "MODE", Type: "string", DefaultValue: `"fast"`},
		{Name: "DEPTH", Type: "natural range 0 to 255", DefaultValue: "16"},
		{Name: "OFFSET", Type: "integer", DefaultValue: "-1"},
	}, d.Generics)
}

func TestExtract_GenericDefaultExpressions(t *testing.T) {
	src := `entity masks is
	generic (
		MASK : integer := 16#FF#;
		EPS : real := 1.0e-3;
		INIT : std_logic_vector(3 downto 0) := (others => '0');
		HOLD : time := 1.5e3 ps; -- hold time
		PATTERN : bit_vector := X"A5";
		N : integer := 4
	);
	port (clk : in std_logic);
end masks;
`
	d := extractString(t, types.DefaultConfig(), src)
	assert.Equal(t, []types.Generic{
		{Name: "MASK", Type: "integer", DefaultValue: "16#FF#"},
		{Name: "EPS", Type: "real", DefaultValue: "1.0e-3"},
		{Name: "INIT", Type: "std_logic_vector(3 downto 0)", DefaultValue: "(others => '0')"},
		{Name: "HOLD", Type: "time", DefaultValue: "1.5e3", Unit: "ps"},
		{Name: "PATTERN", Type: "bit_vector", DefaultValue: `X"A5"`},
		{Name: "N", Type: "integer", DefaultValue: "4"},
	}, d.Generics)
}

func TestExtract_AggregateDefaultClosingList(t *testing.T) {
	src := "entity e is\n  generic (INIT : bit_vector(1 downto 0) := (others => '1'));\nend e;\n"
	d := extractString(t, types.DefaultConfig(), src)
	require.Len(t, d.Generics, 1)
	assert.Equal(t, "(others => '1')", d.Generics[0].DefaultValue)
}

func TestExtract_HeaderKeptVerbatim(t *testing.T) {
	src := "-- rev 2   \n--\tauthor:\tme\t\nentity e is\nend e;\n"
	d := extractString(t, types.DefaultConfig(), src)
	assert.Equal(t, []string{"-- rev 2   ", "--\tauthor:\tme\t"}, d.HeaderLines)
}

func TestExtract_PortWithDefaultIsNotGeneric(t *testing.T) {
	src := "entity e is\n  port (\n    en : in std_logic := '0';\n    q : out bit\n  );\nend e;\n"
	d := extractString(t, types.DefaultConfig(), src)

	assert.Empty(t, d.Generics)
	require.Len(t, d.Ports, 2)
	assert.Equal(t, "std_logic", d.Ports[0].Type)
}

// The strict mode keeps the historical acceptance rule: the last declaration
// of a list is dropped when it has no ";" of its own or shares its line with
// the closing ");". The default mode accepts it.
func TestExtract_LastDeclarationTerminator(t *testing.T) {
	src := `entity e is
	generic (
		A : integer := 1;
		B : integer := 2);
	port (
		x : in std_logic;
		y : out integer range 0 to 8);
end e;
`
	tests := []struct {
		name         string
		strict       bool
		wantGenerics []string
		wantPorts    []string
	}{
		{
			name:         "default accepts last declaration",
			wantGenerics: []string{"A", "B"},
			wantPorts:    []string{"x", "y"},
		},
		{
			name:         "strict drops last declaration",
			strict:       true,
			wantGenerics: []string{"A"},
			wantPorts:    []string{"x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := types.DefaultConfig()
			cfg.StrictTerminator = tt.strict
			d := extractString(t, cfg, src)

			var generics, ports []string
			for _, g := range d.Generics {
				generics = append(generics, g.Name)
			}
			for _, p := range d.Ports {
				ports = append(ports, p.Name)
			}
			assert.Equal(t, tt.wantGenerics, generics)
			assert.Equal(t, tt.wantPorts, ports)
		})
	}
}

func TestExtract_CaseInsensitiveEnd(t *testing.T) {
	src := "ENTITY Top IS\n  PORT (a : IN bit);\nEND Top;\nARCHITECTURE Behave OF Top IS\n"
	d := extractString(t, types.DefaultConfig(), src)

	assert.Equal(t, "Top", d.EntityName)
	assert.Equal(t, []string{"Behave"}, d.ArchitectureNames)
	require.Len(t, d.Ports, 1)
	assert.Equal(t, types.DirIn, d.Ports[0].Direction)
}

func TestExtract_CRLF(t *testing.T) {
	src := strings.ReplaceAll(counterSrc, "\n", "\r\n")
	d := extractString(t, types.DefaultConfig(), src)

	assert.Equal(t, "counter", d.EntityName)
	assert.Len(t, d.Ports, 3)
	assert.Equal(t, "-- counter.vhd", d.HeaderLines[0])
	assert.Equal(t, "std_logic_vector(7 downto 0)", d.Ports[2].Type)
}

func TestExtractFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counter.vhd")
	require.NoError(t, os.WriteFile(path, []byte(counterSrc), 0o644))

	d, err := New(types.DefaultConfig()).ExtractFile(path)
	require.NoError(t, err)
	assert.Equal(t, "counter", d.EntityName)

	_, err = New(types.DefaultConfig()).ExtractFile(filepath.Join(t.TempDir(), "missing.vhd"))
	assert.Error(t, err)
}
