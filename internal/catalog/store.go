// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog keeps a SQLite history of generated testbenches: which
// entity, from which source, to which output, with which interface.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/vhdl-tbgen/pkg/types"
)

const (
	dbFile = "catalog.db"

	defaultListLimit = 50

	// timeLayout is fixed-width so generated_at sorts lexically.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// Store manages the catalog database.
type Store struct {
	db  *sql.DB
	dir string
}

// Record is one generated testbench.
type Record struct {
	ID           string       `json:"id" yaml:"id"`
	Entity       string       `json:"entity" yaml:"entity"`
	Architecture string       `json:"architecture,omitempty" yaml:"architecture,omitempty"`
	SourcePath   string       `json:"source_path" yaml:"source_path"`
	OutputPath   string       `json:"output_path" yaml:"output_path"`
	GenericCount int          `json:"generic_count" yaml:"generic_count"`
	Clock        string       `json:"clock" yaml:"clock"`
	Reset        string       `json:"reset" yaml:"reset"`
	Ports        []types.Port `json:"ports" yaml:"ports"`
	GeneratedAt  time.Time    `json:"generated_at" yaml:"generated_at"`
}

// NewRecord builds a Record for a testbench generated from d.
func NewRecord(d types.ModuleDescriptor, ctl types.ControlSignals, sourcePath, outputPath string) Record {
	return Record{
		ID:           uuid.NewString(),
		Entity:       d.EntityName,
		Architecture: d.Architecture(),
		SourcePath:   sourcePath,
		OutputPath:   outputPath,
		GenericCount: len(d.Generics),
		Clock:        ctl.Clock,
		Reset:        ctl.Reset,
		Ports:        d.Ports,
		GeneratedAt:  time.Now().UTC(),
	}
}

// NewStore opens or creates dir/catalog.db and its schema.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = types.DefaultCatalogDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, dbFile)+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	s := &Store{db: db, dir: dir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS testbenches (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			entity TEXT NOT NULL,
			architecture TEXT,
			source_path TEXT NOT NULL,
			output_path TEXT NOT NULL,
			generic_count INTEGER NOT NULL,
			clock TEXT,
			reset TEXT,
			generated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ports (
			testbench_id TEXT NOT NULL REFERENCES testbenches(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			direction TEXT NOT NULL,
			type TEXT NOT NULL,
			PRIMARY KEY (testbench_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_testbenches_entity ON testbenches(entity)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Add stores r and its ports in one transaction.
func (s *Store) Add(ctx context.Context, r Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO testbenches (id, entity, architecture, source_path, output_path, generic_count, clock, reset, generated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Entity, r.Architecture, r.SourcePath, r.OutputPath, r.GenericCount,
		r.Clock, r.Reset, r.GeneratedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting testbench %s: %w", r.Entity, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO ports (testbench_id, position, name, direction, type) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range r.Ports {
		if _, err := stmt.ExecContext(ctx, r.ID, i, p.Name, string(p.Direction), p.Type); err != nil {
			return fmt.Errorf("inserting port %s: %w", p.Name, err)
		}
	}

	return tx.Commit()
}

// ListOptions filters List.
type ListOptions struct {
	// Entity restricts results to one entity name (case-insensitive).
	Entity string

	// Limit caps the result count. Zero uses the default of 50; a negative
	// value removes the cap.
	Limit int
}

// List returns records, newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Record, error) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT id, entity, architecture, source_path, output_path, generic_count, clock, reset, generated_at
		FROM testbenches`)
	if opts.Entity != "" {
		qb.WriteString(` WHERE lower(entity) = lower(?)`)
		args = append(args, opts.Entity)
	}
	qb.WriteString(` ORDER BY generated_at DESC, rowid DESC`)

	limit := opts.Limit
	if limit == 0 {
		limit = defaultListLimit
	}
	if limit > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r                Record
			arch, clock, rst sql.NullString
			generatedAt      string
		)
		if err := rows.Scan(&r.ID, &r.Entity, &arch, &r.SourcePath, &r.OutputPath,
			&r.GenericCount, &clock, &rst, &generatedAt); err != nil {
			return nil, fmt.Errorf("scanning catalog row: %w", err)
		}
		r.Architecture = arch.String
		r.Clock = clock.String
		r.Reset = rst.String
		if t, err := time.Parse(timeLayout, generatedAt); err == nil {
			r.GeneratedAt = t
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating catalog rows: %w", err)
	}

	for i := range records {
		ports, err := s.ports(ctx, records[i].ID)
		if err != nil {
			return nil, err
		}
		records[i].Ports = ports
	}
	return records, nil
}

func (s *Store) ports(ctx context.Context, id string) ([]types.Port, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, direction, type FROM ports WHERE testbench_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("querying ports for %s: %w", id, err)
	}
	defer rows.Close()

	var ports []types.Port
	for rows.Next() {
		var (
			p   types.Port
			dir string
		)
		if err := rows.Scan(&p.Name, &dir, &p.Type); err != nil {
			return nil, fmt.Errorf("scanning port row: %w", err)
		}
		p.Direction = types.Direction(dir)
		ports = append(ports, p)
	}
	return ports, rows.Err()
}
