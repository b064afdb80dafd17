// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package outpath derives the testbench file name from a source path.
package outpath

import (
	"fmt"
	"path/filepath"
	"regexp"
)

// DebugExtension is appended to the source argument in debug mode.
const DebugExtension = ".vhd"

// baseNamePattern is the shape of a decodable file name: a word followed by
// a VHDL extension.
var baseNamePattern = regexp.MustCompile(`(?i)^(\w+)(\.vhdl?)$`)

// PathDecodeError reports a source path that does not split into an
// optional directory, a base name and a VHDL extension.
type PathDecodeError struct {
	Path string
}

func (e *PathDecodeError) Error() string {
	return fmt.Sprintf("cannot derive testbench path from %q: expected [dir/]name.vhd", e.Path)
}

// Parts is a decoded source path. Dir keeps its trailing separator, or is
// empty when the path had no directory.
type Parts struct {
	Dir  string
	Name string
	Ext  string
}

// Decode splits path into its directory, base name and extension.
func Decode(path string) (Parts, error) {
	dir, file := filepath.Split(path)
	m := baseNamePattern.FindStringSubmatch(file)
	if m == nil {
		return Parts{}, &PathDecodeError{Path: path}
	}
	return Parts{Dir: dir, Name: m[1], Ext: m[2]}, nil
}

// Derive returns the testbench path for source: prefix is prepended to the
// base name and the extension is kept. The file goes next to the source
// unless outDir is set.
func Derive(source, prefix, outDir string) (string, error) {
	p, err := Decode(source)
	if err != nil {
		return "", err
	}
	name := prefix + p.Name + p.Ext
	if outDir != "" {
		return filepath.Join(outDir, name), nil
	}
	return p.Dir + name, nil
}

// WithDebugExtension returns arg with DebugExtension appended.
func WithDebugExtension(arg string) string {
	return arg + DebugExtension
}
