// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package simulator runs an installed VHDL simulator over a source file and
// its generated testbench to check that both analyze cleanly.
package simulator

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	binGHDL = "ghdl"
	binNVC  = "nvc"
)

// Simulator analyzes VHDL files into a scratch work library.
type Simulator interface {
	// Name returns the simulator binary name ("ghdl" or "nvc").
	Name() string

	// Available reports whether the binary exists on PATH and answers
	// --version.
	Available() bool

	// Analyze compiles files in order. The work library lives in a
	// temporary directory removed before Analyze returns.
	Analyze(files ...string) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
	RunCombined(name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (o *osExecutor) RunCombined(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// simulator implements Simulator for one binary. GHDL and NVC share the
// flow and differ only in how the analyze command line is built.
type simulator struct {
	bin         string
	std         string
	analyzeArgs func(std, workDir string, files []string) []string
	exec        executor
}

func (s *simulator) Name() string { return s.bin }

func (s *simulator) Available() bool {
	if _, err := s.exec.LookPath(s.bin); err != nil {
		return false
	}
	return s.exec.RunSilent(s.bin, "--version") == nil
}

func (s *simulator) Analyze(files ...string) error {
	if len(files) == 0 {
		return fmt.Errorf("%s: nothing to analyze", s.bin)
	}
	workDir, err := os.MkdirTemp("", "tbgen-work-")
	if err != nil {
		return fmt.Errorf("creating work library: %w", err)
	}
	defer os.RemoveAll(workDir)

	out, err := s.exec.RunCombined(s.bin, s.analyzeArgs(s.std, workDir, files)...)
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			return fmt.Errorf("%s analysis of %s: %w", s.bin, strings.Join(files, ", "), err)
		}
		return fmt.Errorf("%s analysis of %s: %w\n%s", s.bin, strings.Join(files, ", "), err, msg)
	}
	return nil
}

func ghdlArgs(std, workDir string, files []string) []string {
	args := []string{"-a", "--std=" + std, "--workdir=" + workDir}
	return append(args, files...)
}

// nvcStd expands a two-digit revision to the four-digit form nvc expects.
func nvcStd(std string) string {
	switch std {
	case "87":
		return "1987"
	case "93":
		return "1993"
	case "00":
		return "2000"
	case "02":
		return "2002"
	case "08":
		return "2008"
	case "19":
		return "2019"
	default:
		return std
	}
}

func nvcArgs(std, workDir string, files []string) []string {
	args := []string{"--std=" + nvcStd(std), "--work=work:" + filepath.Join(workDir, "work"), "-a"}
	return append(args, files...)
}

func newGHDL(exec executor, std string) *simulator {
	return &simulator{bin: binGHDL, std: std, analyzeArgs: ghdlArgs, exec: exec}
}

func newNVC(exec executor, std string) *simulator {
	return &simulator{bin: binNVC, std: std, analyzeArgs: nvcArgs, exec: exec}
}

var defaultExec = &osExecutor{}

// Detect tries ghdl first and falls back to nvc. std is the VHDL revision
// in two-digit form ("93", "08"). It returns an error if neither is usable.
func Detect(std string) (Simulator, error) {
	return detect(defaultExec, std)
}

func detect(exec executor, std string) (Simulator, error) {
	if ghdl := newGHDL(exec, std); ghdl.Available() {
		return ghdl, nil
	}
	if nvc := newNVC(exec, std); nvc.Available() {
		return nvc, nil
	}
	return nil, fmt.Errorf(
		"no VHDL simulator available: neither %s nor %s found or operational",
		binGHDL, binNVC,
	)
}
