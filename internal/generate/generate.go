// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate drives one or more source files through extraction,
// rendering and writing, printing a status line per file.
package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/vhdl-tbgen/internal/catalog"
	"github.com/pdiddy/vhdl-tbgen/internal/extract"
	"github.com/pdiddy/vhdl-tbgen/internal/outpath"
	"github.com/pdiddy/vhdl-tbgen/internal/render"
	"github.com/pdiddy/vhdl-tbgen/pkg/types"
)

// Status is the outcome of generating one testbench.
type Status string

const (
	StatusGenerated Status = "generated"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Recorder stores a record of each generated testbench. *catalog.Store
// implements it.
type Recorder interface {
	Add(ctx context.Context, r catalog.Record) error
}

// Checker analyzes the source and its testbench after writing.
// simulator.Simulator implements it.
type Checker interface {
	Name() string
	Analyze(files ...string) error
}

// Options controls where output goes and what happens around each file.
type Options struct {
	// OutputDir receives every testbench. Empty writes beside the source.
	OutputDir string

	// SkipExisting leaves an existing testbench untouched.
	SkipExisting bool

	// Verbose prints descriptor statistics for each generated file.
	Verbose bool

	// Recorder, when set, receives a catalog record per generated file.
	Recorder Recorder

	// Checker, when set, analyzes source and testbench after writing.
	Checker Checker
}

// BatchResult holds the outcome of a batch run.
type BatchResult struct {
	Generated int
	Skipped   int
	Failed    int
}

// Total returns the number of files processed.
func (r BatchResult) Total() int {
	return r.Generated + r.Skipped + r.Failed
}

// HasFailures reports whether any file failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Generator turns VHDL sources into testbench files.
type Generator struct {
	cfg       types.Config
	extractor *extract.Extractor
	renderer  *render.Renderer
	opts      Options
}

// New returns a Generator for cfg and opts.
func New(cfg types.Config, opts Options) *Generator {
	return &Generator{
		cfg:       cfg,
		extractor: extract.New(cfg),
		renderer:  render.New(cfg),
		opts:      opts,
	}
}

// Output returns the testbench path for source.
func (g *Generator) Output(source string) (string, error) {
	return outpath.Derive(source, g.cfg.OutputPrefix, g.opts.OutputDir)
}

// File generates the testbench for source and returns its path. Nothing is
// written when the path cannot be derived, the source cannot be read, or it
// declares no entity. A failed check is reported after the file is written.
func (g *Generator) File(ctx context.Context, source string) (string, error) {
	out, _, err := g.generate(ctx, source, nil)
	return out, err
}

// existsError marks an output left in place by SkipExisting.
type existsError struct {
	path string
}

func (e *existsError) Error() string {
	return fmt.Sprintf("%s already exists", e.path)
}

func (g *Generator) generate(ctx context.Context, source string, w io.Writer) (string, types.ModuleDescriptor, error) {
	var d types.ModuleDescriptor

	out, err := g.Output(source)
	if err != nil {
		return "", d, err
	}

	if g.opts.SkipExisting {
		if _, err := os.Stat(out); err == nil {
			return out, d, &existsError{path: out}
		}
	}

	d, err = g.extractor.ExtractFile(source)
	if err != nil {
		return out, d, err
	}

	text, err := g.renderer.Render(d)
	if err != nil {
		var missing *render.MissingEntityError
		if errors.As(err, &missing) {
			missing.Source = source
		}
		return out, d, err
	}

	if g.opts.OutputDir != "" {
		if err := os.MkdirAll(g.opts.OutputDir, 0o755); err != nil {
			return out, d, fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
		return out, d, fmt.Errorf("writing testbench %s: %w", out, err)
	}

	if g.opts.Recorder != nil {
		ctl := d.ControlSignals(g.cfg.DefaultClockName, g.cfg.DefaultResetName)
		rec := catalog.NewRecord(d, ctl, absPath(source), absPath(out))
		if err := g.opts.Recorder.Add(ctx, rec); err != nil {
			// The testbench is written; a lost record only warns.
			if w != nil {
				fmt.Fprintf(w, "warning: cataloging %s: %v\n", out, err)
			}
		}
	}

	if g.opts.Checker != nil {
		if err := g.opts.Checker.Analyze(source, out); err != nil {
			return out, d, fmt.Errorf("%s check: %w", g.opts.Checker.Name(), err)
		}
	}
	return out, d, nil
}

// GenerateFile generates one testbench and prints its status to w.
func (g *Generator) GenerateFile(ctx context.Context, source string, w io.Writer) Status {
	out, d, err := g.generate(ctx, source, w)

	var exists *existsError
	switch {
	case errors.As(err, &exists):
		fmt.Fprintf(w, "skipped: %s (already exists)\n", out)
		return StatusSkipped
	case err != nil:
		fmt.Fprintf(w, "failed:  %s (%v)\n", source, err)
		return StatusFailed
	}

	fmt.Fprintf(w, "generated: %s\n", out)
	if g.opts.Verbose {
		ctl := d.ControlSignals(g.cfg.DefaultClockName, g.cfg.DefaultResetName)
		fmt.Fprintf(w, "  entity %s: %d generics, %d ports, clock %s%s, reset %s%s\n",
			d.EntityName, len(d.Generics), len(d.Ports),
			ctl.Clock, synthesizedMark(ctl.ClockSynthesized),
			ctl.Reset, synthesizedMark(ctl.ResetSynthesized))
	}
	return StatusGenerated
}

// GenerateBatch processes sources in order, printing per-file status and a
// summary to w. It stops early, returning ctx.Err(), if ctx is cancelled.
func (g *Generator) GenerateBatch(ctx context.Context, sources []string, w io.Writer) (BatchResult, error) {
	var result BatchResult
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		switch g.GenerateFile(ctx, src, w) {
		case StatusGenerated:
			result.Generated++
		case StatusSkipped:
			result.Skipped++
		case StatusFailed:
			result.Failed++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d generated, %d skipped, %d failed (total: %d)\n",
		result.Generated, result.Skipped, result.Failed, result.Total())
	return result, nil
}

func synthesizedMark(synth bool) string {
	if synth {
		return " (default)"
	}
	return ""
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
