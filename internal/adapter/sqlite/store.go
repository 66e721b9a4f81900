// Package sqlite persists application records to an embedded SQLite table
// whose columns mirror the flat-file store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/couchcryptid/insurance-quote-service/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS applications (
  id               INTEGER PRIMARY KEY,
  name             TEXT,
  mobile           TEXT,
  email            TEXT,
  age              INTEGER,
  income           INTEGER,
  employment       TEXT,
  dependents       INTEGER,
  dependents_info  TEXT,
  covers           TEXT,
  insurance_type   TEXT,
  monthly_cost_eur INTEGER,
  yearly_cost_eur  INTEGER,
  health_issues    TEXT,
  cost             INTEGER,
  created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// columns follows domain.Columns order.
var columns = []string{
	"name", "mobile", "email", "age", "income", "employment", "dependents",
	"dependents_info", "covers", "insurance_type", "monthly_cost_eur", "yearly_cost_eur",
	"health_issues", "cost",
}

var (
	insertSQL = fmt.Sprintf("INSERT INTO applications (%s) VALUES (?%s)",
		strings.Join(columns, ", "), strings.Repeat(", ?", len(columns)-1))
	selectSQL = fmt.Sprintf("SELECT %s FROM applications ORDER BY id", strings.Join(columns, ", "))
)

// Store implements intake.RecordStore on a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns all records in insertion order.
func (s *Store) Load(ctx context.Context) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx, selectSQL)
	if err != nil {
		return nil, &domain.StoreError{Op: "load", Err: err}
	}
	defer rows.Close()

	records := []domain.Record{}
	for rows.Next() {
		cells := make([]sql.NullString, len(columns))
		dest := make([]any, len(columns))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, &domain.StoreError{Op: "load", Err: fmt.Errorf("scan: %w", err)}
		}

		row := make([]string, len(cells))
		for i, c := range cells {
			row[i] = c.String
		}
		rec, err := domain.RecordFromRow(row)
		if err != nil {
			return nil, &domain.StoreError{Op: "load", Err: fmt.Errorf("record %d: %w", len(records)+1, err)}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StoreError{Op: "load", Err: err}
	}
	return records, nil
}

// Submit inserts rec. Empty cells are stored as NULL.
func (s *Store) Submit(ctx context.Context, rec domain.Record) error {
	row, err := rec.Row()
	if err != nil {
		return &domain.StoreError{Op: "submit", Err: err}
	}
	args := make([]any, len(row))
	for i, v := range row {
		if v == "" {
			args[i] = nil
			continue
		}
		args[i] = v
	}
	if _, err := s.db.ExecContext(ctx, insertSQL, args...); err != nil {
		return &domain.StoreError{Op: "submit", Err: err}
	}
	return nil
}
