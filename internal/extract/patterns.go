// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/pdiddy/vhdl-tbgen/pkg/types"
)

// LineKind tags what a source line was recognised as.
type LineKind int

const (
	Unmatched LineKind = iota
	HeaderLine
	LibraryLine
	EntityStart
	GenericDecl
	PortDecl
	EntityEnd
	ArchHeader
)

var lineKindNames = [...]string{
	Unmatched:   "unmatched",
	HeaderLine:  "header",
	LibraryLine: "library",
	EntityStart: "entity-start",
	GenericDecl: "generic",
	PortDecl:    "port",
	EntityEnd:   "entity-end",
	ArchHeader:  "architecture",
}

func (k LineKind) String() string {
	if k < 0 || int(k) >= len(lineKindNames) {
		return "unknown"
	}
	return lineKindNames[k]
}

// Phase is the scanner position relative to the entity block.
type Phase int

const (
	PhasePreEntity Phase = iota
	PhaseEntityBody
	PhasePostEntity
)

// Match is one classification of a line. Only the fields relevant to Kind
// are set: Text for headers, library clauses, entity and architecture
// names; Generic for GenericDecl; Port for PortDecl.
type Match struct {
	Kind    LineKind
	Text    string
	Generic types.Generic
	Port    types.Port
}

var (
	// Pattern: -- comment  (kept to the end of the line)
	headerPattern = regexp.MustCompile(`^\s*(--.*)$`)

	// Pattern: library <name>;
	libraryPattern = regexp.MustCompile(`(?i)^\s*(library\s+\w+\s*;)`)

	// Pattern: use <lib>.<pkg>.all;  (leading indentation is kept)
	usePattern = regexp.MustCompile(`(?i)^(\s*use\s+\w+\.\w+\.all\s*;)`)

	// Pattern: entity <name> is
	entityPattern = regexp.MustCompile(`(?i)^\s*entity\s+(\w+)\s+is\b`)

	// Pattern: port ( / generic (  opening a list on the same line as a declaration
	listOpenerPattern = regexp.MustCompile(`(?i)^\s*(?:port|generic)\s*\(`)

	// Pattern: <name> : <type> := <default expression> <rest>
	genericPattern = regexp.MustCompile(`^\s*(\w+)\s*:\s*(\w[\w\s()\-]*?)\s*:=\s*(.*)$`)

	// Pattern: <abstract literal> <unit>, e.g. 10 ns, 1.5e3 us
	physicalPattern = regexp.MustCompile(`^(-?[0-9][\w.#+\-]*)\s+([A-Za-z]\w*)$`)

	// Pattern: <name> : <direction> <rest>
	portPattern = regexp.MustCompile(`(?i)^\s*(\w+)\s*:\s*(inout|in|out|buffer)\s+(.*)$`)

	// Pattern: architecture <name> of
	archPattern = regexp.MustCompile(`(?i)^\s*architecture\s+(\w+)\s+of\b`)
)

// Classifier turns single lines into Matches. The zero value accepts the
// last declaration of a list even when it has no trailing ";".
type Classifier struct {
	// Strict only accepts declarations whose line ends with ";" and does not
	// close the enclosing list.
	Strict bool
}

// Classify reports every pattern the line matches in the given phase. The
// patterns of a phase are tested independently, so a line can yield more
// than one Match. A line that matches nothing yields a single Unmatched.
// entity is the already captured entity name; it is only consulted in the
// entity-body phase.
func (c Classifier) Classify(phase Phase, line, entity string) []Match {
	var matches []Match
	switch phase {
	case PhasePreEntity:
		matches = c.classifyPreEntity(line)
	case PhaseEntityBody:
		matches = c.classifyEntityBody(line, entity)
	case PhasePostEntity:
		if m, ok := matchArchitecture(line); ok {
			matches = append(matches, m)
		}
	}
	if len(matches) == 0 {
		return []Match{{Kind: Unmatched}}
	}
	return matches
}

func (c Classifier) classifyPreEntity(line string) []Match {
	var matches []Match
	if m := headerPattern.FindStringSubmatch(line); m != nil {
		matches = append(matches, Match{Kind: HeaderLine, Text: strings.TrimRight(m[1], "\r")})
	}
	if m := libraryPattern.FindStringSubmatch(line); m != nil {
		matches = append(matches, Match{Kind: LibraryLine, Text: m[1]})
	} else if m := usePattern.FindStringSubmatch(line); m != nil {
		matches = append(matches, Match{Kind: LibraryLine, Text: strings.TrimRight(m[1], " \t")})
	}
	if m := entityPattern.FindStringSubmatch(line); m != nil {
		matches = append(matches, Match{Kind: EntityStart, Text: m[1]})
	}
	return matches
}

func (c Classifier) classifyEntityBody(line, entity string) []Match {
	var matches []Match
	decl := listOpenerPattern.ReplaceAllString(line, "")
	if g, ok := c.matchGeneric(decl); ok {
		matches = append(matches, Match{Kind: GenericDecl, Generic: g})
	}
	if p, ok := c.matchPort(decl); ok {
		matches = append(matches, Match{Kind: PortDecl, Port: p})
	}
	if closesEntity(line, entity) {
		matches = append(matches, Match{Kind: EntityEnd})
	}
	return matches
}

func (c Classifier) matchGeneric(line string) (types.Generic, bool) {
	m := genericPattern.FindStringSubmatch(line)
	if m == nil {
		return types.Generic{}, false
	}
	typ := strings.Join(strings.Fields(m[2]), " ")
	// "a : in std_logic := '0'" is a port with a default, not a generic.
	if _, isDir := types.ParseDirection(strings.Fields(typ)[0]); isDir {
		return types.Generic{}, false
	}
	value, semi, closes := splitTerminator(m[3])
	if c.Strict && (!semi || closes) {
		return types.Generic{}, false
	}
	if value == "" {
		return types.Generic{}, false
	}
	g := types.Generic{Name: m[1], Type: typ, DefaultValue: value}
	if pm := physicalPattern.FindStringSubmatch(value); pm != nil {
		g.DefaultValue, g.Unit = pm[1], pm[2]
	}
	return g, true
}

func (c Classifier) matchPort(line string) (types.Port, bool) {
	m := portPattern.FindStringSubmatch(line)
	if m == nil {
		return types.Port{}, false
	}
	dir, _ := types.ParseDirection(m[2])

	body, semi, closes := splitTerminator(m[3])
	if c.Strict && (!semi || closes) {
		return types.Port{}, false
	}
	if i := strings.Index(body, ":="); i >= 0 {
		body = strings.TrimSpace(body[:i])
	}
	if body == "" {
		return types.Port{}, false
	}
	return types.Port{Name: m[1], Direction: dir, Type: body}, true
}

// splitTerminator strips a trailing comment, a trailing ";" and any closing
// parentheses that do not belong to the declaration itself. semi reports the
// ";" and closes reports that the line also closed the enclosing list.
func splitTerminator(rest string) (body string, semi, closes bool) {
	if i := strings.Index(rest, "--"); i >= 0 {
		rest = rest[:i]
	}
	body = strings.TrimSpace(rest)
	if strings.HasSuffix(body, ";") {
		semi = true
		body = strings.TrimSpace(strings.TrimSuffix(body, ";"))
	}
	for strings.HasSuffix(body, ")") && strings.Count(body, ")") > strings.Count(body, "(") {
		closes = true
		body = strings.TrimSpace(strings.TrimSuffix(body, ")"))
	}
	return body, semi, closes
}

// closesEntity reports whether line ends the entity block: it contains
// "end <entity>" or "end entity", ignoring case.
func closesEntity(line, entity string) bool {
	lower := strings.ToLower(line)
	if entity != "" && strings.Contains(lower, "end "+strings.ToLower(entity)) {
		return true
	}
	return strings.Contains(lower, "end entity")
}

func matchArchitecture(line string) (Match, bool) {
	if m := archPattern.FindStringSubmatch(line); m != nil {
		return Match{Kind: ArchHeader, Text: m[1]}, true
	}
	return Match{}, false
}
