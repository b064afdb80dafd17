// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract scrapes the interface of a VHDL entity out of source text.
// It is a line-oriented pattern matcher, not a parser: lines that match no
// pattern are skipped, and malformed input simply yields less metadata.
//
// Known limitation: a port or generic that shares its line with the closing
// ");" of the list is only recognised in the default mode. With
// Config.StrictTerminator set the scraper reproduces the historical rule and
// drops such a declaration.
package extract

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/pdiddy/vhdl-tbgen/pkg/types"
)

// maxLineSize bounds a single source line.
const maxLineSize = 1 << 20

// Extractor builds ModuleDescriptors from VHDL source.
type Extractor struct {
	classifier Classifier
}

// New returns an Extractor configured from cfg.
func New(cfg types.Config) *Extractor {
	return &Extractor{classifier: Classifier{Strict: cfg.StrictTerminator}}
}

// ExtractFile opens path and extracts its entity description.
func (e *Extractor) ExtractFile(path string) (types.ModuleDescriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.ModuleDescriptor{}, fmt.Errorf("opening source %s: %w", path, err)
	}
	defer f.Close()

	d, err := e.Extract(f)
	if err != nil {
		return d, fmt.Errorf("reading source %s: %w", path, err)
	}
	return d, nil
}

// Extract scans r once, line by line, advancing through the pre-entity,
// entity-body and post-entity phases. Phases never move backwards. The line
// that opens or closes the entity is also tested against the patterns of the
// phase it moves into.
//
// A source without an entity declaration is not an error here; the returned
// descriptor has an empty EntityName.
func (e *Extractor) Extract(r io.Reader) (types.ModuleDescriptor, error) {
	var d types.ModuleDescriptor
	phase := PhasePreEntity

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for sc.Scan() {
		line := sc.Text()

		if phase == PhasePreEntity {
			for _, m := range e.classifier.Classify(phase, line, "") {
				switch m.Kind {
				case HeaderLine:
					d.HeaderLines = append(d.HeaderLines, m.Text)
				case LibraryLine:
					d.LibraryClauses = append(d.LibraryClauses, m.Text)
				case EntityStart:
					d.EntityName = m.Text
					phase = PhaseEntityBody
				}
			}
		}

		if phase == PhaseEntityBody {
			for _, m := range e.classifier.Classify(phase, line, d.EntityName) {
				switch m.Kind {
				case GenericDecl:
					d.Generics = append(d.Generics, m.Generic)
				case PortDecl:
					d.Ports = append(d.Ports, m.Port)
				case EntityEnd:
					phase = PhasePostEntity
				}
			}
		}

		if phase == PhasePostEntity {
			for _, m := range e.classifier.Classify(phase, line, d.EntityName) {
				if m.Kind == ArchHeader {
					d.ArchitectureNames = append(d.ArchitectureNames, m.Text)
				}
			}
		}
	}
	if err := sc.Err(); err != nil {
		return d, err
	}
	return d, nil
}
