//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main contains Mage build targets for tbgen developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir     = "bin"
	binName    = "tbgen"
	cmdPkg     = "./cmd/tbgen"
	exampleDir = "build/example"
	exampleSrc = "testdata/counter.vhd"
)

// Default target when mage runs without arguments.
var Default = Build

// buildVersion returns the git description of HEAD, or "dev" outside a
// repository.
func buildVersion() string {
	v, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || v == "" {
		return "dev"
	}
	return v
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	ldflags := "-X main.version=" + buildVersion()
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests for every package.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet over every package.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Example generates the testbench for testdata/counter.vhd into
// build/example/ and prints it.
func Example() error {
	mg.Deps(Build)

	if err := os.MkdirAll(exampleDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", exampleDir, err)
	}
	bin := filepath.Join(binDir, binName)
	if err := sh.RunV(bin, "generate", "--verbose", "--output-dir", exampleDir, exampleSrc); err != nil {
		return err
	}

	data, err := os.ReadFile(filepath.Join(exampleDir, "tb_counter.vhd"))
	if err != nil {
		return fmt.Errorf("reading example output: %w", err)
	}
	fmt.Print(string(data))
	return nil
}

// Clean removes build outputs.
func Clean() error {
	for _, dir := range []string{binDir, "build"} {
		if err := sh.Rm(dir); err != nil {
			return err
		}
	}
	return nil
}

// Stats prints project metrics: Go production/test LOC and VHDL fixture lines.
func Stats() error {
	prodLines, err := countLines(".", isProdGo)
	if err != nil {
		return err
	}
	testLines, err := countLines(".", isTestGo)
	if err != nil {
		return err
	}
	vhdlLines, err := countLines("testdata", isVHDL)
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	fmt.Printf("Lines (VHDL fixtures):          %d\n", vhdlLines)
	return nil
}

func isTestGo(path string) bool { return strings.HasSuffix(path, "_test.go") }

func isProdGo(path string) bool { return filepath.Ext(path) == ".go" && !isTestGo(path) }

func isVHDL(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".vhd" || ext == ".vhdl"
}

// countLines walks root and counts non-blank lines in files accepted by
// match. Hidden and underscore-prefixed directories are skipped.
func countLines(root string, match func(string) bool) (int, error) {
	total := 0
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			name := info.Name()
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !match(path) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) != "" {
				total++
			}
		}
		return nil
	})
	return total, err
}
