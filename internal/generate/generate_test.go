// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/vhdl-tbgen/internal/catalog"
	"github.com/pdiddy/vhdl-tbgen/internal/outpath"
	"github.com/pdiddy/vhdl-tbgen/internal/render"
	"github.com/pdiddy/vhdl-tbgen/pkg/types"
)

const noEntitySrc = "-- helpers\nlibrary ieee;\npackage util is\nend package;\n"

// copySource copies the repository's counter example into dir under name.
func copySource(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", "counter.vhd"))
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

type fakeRecorder struct {
	records []catalog.Record
	err     error
}

func (f *fakeRecorder) Add(_ context.Context, r catalog.Record) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, r)
	return nil
}

type fakeChecker struct {
	calls [][]string
	err   error
}

func (f *fakeChecker) Name() string { return "ghdl" }

func (f *fakeChecker) Analyze(files ...string) error {
	f.calls = append(f.calls, files)
	return f.err
}

func TestFile_CounterEndToEnd(t *testing.T) {
	dir := t.TempDir()
	src := copySource(t, dir, "counter.vhd")

	out, err := New(types.DefaultConfig(), Options{}).File(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tb_counter.vhd"), out)

	golden, err := os.ReadFile(filepath.Join("..", "render", "testdata", "counter_tb.golden"))
	require.NoError(t, err)
	want := "-- counter.vhd\n-- Free-running up counter with synchronous active-low reset.\n" + string(golden)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, want, string(got))
}

func TestFile_Overwrites(t *testing.T) {
	dir := t.TempDir()
	src := copySource(t, dir, "counter.vhd")
	out := filepath.Join(dir, "tb_counter.vhd")
	require.NoError(t, os.WriteFile(out, []byte("stale"), 0o644))

	_, err := New(types.DefaultConfig(), Options{}).File(context.Background(), src)
	require.NoError(t, err)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.NotEqual(t, "stale", string(got))
}

func TestFile_MissingEntityWritesNothing(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "util.vhd", noEntitySrc)

	_, err := New(types.DefaultConfig(), Options{}).File(context.Background(), src)

	var missing *render.MissingEntityError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, src, missing.Source)

	_, statErr := os.Stat(filepath.Join(dir, "tb_util.vhd"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestFile_PathDecodeError(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "counter.txt", "entity counter is\nend counter;\n")

	_, err := New(types.DefaultConfig(), Options{}).File(context.Background(), src)

	var decode *outpath.PathDecodeError
	require.True(t, errors.As(err, &decode))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	_, err := New(types.DefaultConfig(), Options{}).File(context.Background(), filepath.Join(dir, "ghost.vhd"))
	assert.Error(t, err)
}

func TestFile_OutputDirAndPrefix(t *testing.T) {
	dir := t.TempDir()
	src := copySource(t, dir, "counter.vhdl")
	outDir := filepath.Join(dir, "nested", "tb")

	cfg := types.DefaultConfig()
	cfg.OutputPrefix = "test_"
	out, err := New(cfg, Options{OutputDir: outDir}).File(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "test_counter.vhdl"), out)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(got), "entity test_counter is")
}

func TestFile_RecorderAndChecker(t *testing.T) {
	dir := t.TempDir()
	src := copySource(t, dir, "counter.vhd")
	rec := &fakeRecorder{}
	chk := &fakeChecker{}

	out, err := New(types.DefaultConfig(), Options{Recorder: rec, Checker: chk}).File(context.Background(), src)
	require.NoError(t, err)

	require.Len(t, rec.records, 1)
	r := rec.records[0]
	assert.Equal(t, "counter", r.Entity)
	assert.Equal(t, "rtl", r.Architecture)
	assert.Equal(t, "clk", r.Clock)
	assert.Equal(t, "rst_n", r.Reset)
	assert.True(t, filepath.IsAbs(r.OutputPath))

	require.Len(t, chk.calls, 1)
	assert.Equal(t, []string{src, out}, chk.calls[0])
}

func TestFile_CheckFailureKeepsOutput(t *testing.T) {
	dir := t.TempDir()
	src := copySource(t, dir, "counter.vhd")
	chk := &fakeChecker{err: errors.New("syntax error")}

	out, err := New(types.DefaultConfig(), Options{Checker: chk}).File(context.Background(), src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghdl check")

	_, statErr := os.Stat(out)
	assert.NoError(t, statErr)
}

func TestGenerateFile_RecorderErrorWarns(t *testing.T) {
	dir := t.TempDir()
	src := copySource(t, dir, "counter.vhd")
	rec := &fakeRecorder{err: errors.New("database is locked")}

	var buf bytes.Buffer
	status := New(types.DefaultConfig(), Options{Recorder: rec}).GenerateFile(context.Background(), src, &buf)

	assert.Equal(t, StatusGenerated, status)
	assert.Contains(t, buf.String(), "warning: cataloging")
	assert.Contains(t, buf.String(), "database is locked")
}

func TestGenerateFile_Verbose(t *testing.T) {
	dir := t.TempDir()
	src := copySource(t, dir, "counter.vhd")

	var buf bytes.Buffer
	status := New(types.DefaultConfig(), Options{Verbose: true}).GenerateFile(context.Background(), src, &buf)

	assert.Equal(t, StatusGenerated, status)
	assert.Contains(t, buf.String(), "generated: "+filepath.Join(dir, "tb_counter.vhd"))
	assert.Contains(t, buf.String(), "entity counter: 1 generics, 3 ports, clock clk, reset rst_n\n")
}

func TestGenerateBatch(t *testing.T) {
	dir := t.TempDir()
	good := copySource(t, dir, "counter.vhd")
	existing := copySource(t, dir, "alu.vhd")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tb_alu.vhd"), []byte("keep"), 0o644))
	bad := writeSource(t, dir, "util.vhd", noEntitySrc)

	var buf bytes.Buffer
	g := New(types.DefaultConfig(), Options{SkipExisting: true})
	result, err := g.GenerateBatch(context.Background(), []string{good, existing, bad}, &buf)
	require.NoError(t, err)

	assert.Equal(t, BatchResult{Generated: 1, Skipped: 1, Failed: 1}, result)
	assert.Equal(t, 3, result.Total())
	assert.True(t, result.HasFailures())

	out := buf.String()
	assert.Contains(t, out, "generated: ")
	assert.Contains(t, out, "skipped: "+filepath.Join(dir, "tb_alu.vhd")+" (already exists)")
	assert.Contains(t, out, "failed:  "+bad+" (no entity declaration found in "+bad+")")
	assert.True(t, strings.HasSuffix(out, "Batch summary: 1 generated, 1 skipped, 1 failed (total: 3)\n"))

	kept, err := os.ReadFile(filepath.Join(dir, "tb_alu.vhd"))
	require.NoError(t, err)
	assert.Equal(t, "keep", string(kept))
}

func TestGenerateBatch_Cancelled(t *testing.T) {
	dir := t.TempDir()
	src := copySource(t, dir, "counter.vhd")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	result, err := New(types.DefaultConfig(), Options{}).GenerateBatch(ctx, []string{src}, &buf)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, result.Total())
	assert.Empty(t, buf.String())
}

func TestBatchResult(t *testing.T) {
	assert.False(t, BatchResult{Generated: 2, Skipped: 1}.HasFailures())
	assert.Equal(t, 3, BatchResult{Generated: 2, Skipped: 1}.Total())
}
