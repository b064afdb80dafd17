// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import "strings"

// entry is one item of a separated list. A non-empty comment opens a new
// group and is written on its own line before the item.
type entry struct {
	comment string
	text    string
}

// list collects the items of a grouped VHDL list (generic clause, port
// clause, signal declarations, association lists). Separators are decided
// by each entry's position in the flattened sequence, so empty groups never
// leave a dangling separator.
type list struct {
	entries []entry
}

func (l *list) add(text string) {
	l.entries = append(l.entries, entry{text: text})
}

// group appends items, labelling the first with comment. Nothing is added
// for an empty group.
func (l *list) group(comment string, items []string) {
	for i, it := range items {
		e := entry{text: it}
		if i == 0 {
			e.comment = comment
		}
		l.entries = append(l.entries, e)
	}
}

func (l *list) len() int { return len(l.entries) }

// write emits every entry on its own line at the given indent. All entries
// but the last end with sep; the last ends with term.
func (l *list) write(b *strings.Builder, indent, sep, term string) {
	last := len(l.entries) - 1
	for i, e := range l.entries {
		if e.comment != "" {
			b.WriteString(indent + "-- " + e.comment + "\n")
		}
		b.WriteString(indent + e.text)
		if i == last {
			b.WriteString(term)
		} else {
			b.WriteString(sep)
		}
		b.WriteString("\n")
	}
}
