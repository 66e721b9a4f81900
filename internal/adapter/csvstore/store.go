// Package csvstore persists application records to a single CSV file.
//
// Every submit rewrites the whole file: the current contents are re-read
// under an exclusive lock, the new record is appended, and the table is
// written to a temporary file that atomically replaces the store. Readers
// never observe a half-written table, and concurrent writers (including
// other processes) queue on the lock instead of losing each other's rows.
package csvstore

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"github.com/couchcryptid/insurance-quote-service/internal/domain"
)

const lockFileSuffix = ".lock"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Store implements intake.RecordStore on a CSV file.
type Store struct {
	path string
	mu   sync.Mutex // flock does not exclude goroutines sharing one handle
	lock *flock.Flock
}

// New returns a store for path. The file and its directory are created on
// the first submit.
func New(path string) *Store {
	return &Store{
		path: path,
		lock: flock.New(path + lockFileSuffix),
	}
}

// Path returns the store file location.
func (s *Store) Path() string { return s.path }

// Close is a no-op; the file is only held open for the duration of a call.
func (s *Store) Close() error { return nil }

// Load returns all records in insertion order. A missing file is an empty
// store, not an error.
func (s *Store) Load(ctx context.Context) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.StoreError{Op: "load", Err: err}
	}
	records, err := readFile(s.path)
	if err != nil {
		return nil, &domain.StoreError{Op: "load", Err: err}
	}
	return records, nil
}

// Submit appends rec and rewrites the store file.
func (s *Store) Submit(ctx context.Context, rec domain.Record) error {
	if err := s.submit(ctx, rec); err != nil {
		return &domain.StoreError{Op: "submit", Err: err}
	}
	return nil
}

func (s *Store) submit(ctx context.Context, rec domain.Record) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.lock.Unlock() //nolint:errcheck // unlock failure leaves a stale lock file that flock ignores

	records, err := readFile(s.path)
	if err != nil {
		return err
	}
	records = append(records, rec)

	return writeFile(s.path, records)
}

func (s *Store) acquire(ctx context.Context) error {
	locked, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock on %s: %w", s.lock.Path(), err)
	}
	if locked {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("acquire lock on %s after waiting: %w", s.lock.Path(), err)
	}
	return nil
}

func readFile(path string) ([]domain.Record, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return []domain.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return decode(f)
}

// decode reads a store table. Columns are matched by header name, so files
// re-saved by spreadsheet tools with reordered columns still load.
func decode(r io.Reader) ([]domain.Record, error) {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(bom, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []domain.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[strings.TrimSpace(h)] = i
	}
	order := make([]int, len(domain.Columns))
	for i, col := range domain.Columns {
		idx, ok := colIdx[col]
		if !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
		order[i] = idx
	}

	records := []domain.Record{}
	for line := 2; ; line++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}

		row := make([]string, len(order))
		for i, idx := range order {
			if idx < len(fields) {
				row[i] = fields[idx]
			}
		}
		rec, err := domain.RecordFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func encode(w io.Writer, records []domain.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(domain.Columns); err != nil {
		return err
	}
	for i, rec := range records {
		row, err := rec.Row()
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeFile replaces path with the encoded table via a synced temp file.
func writeFile(path string, records []domain.Record) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}

	bw := bufio.NewWriter(tmp)
	if err := encode(bw, records); err != nil {
		tmp.Close()
		return fmt.Errorf("encode store: %w", err)
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("write store: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}
	committed = true
	return nil
}
