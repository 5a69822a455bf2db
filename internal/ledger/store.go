// Package ledger persists expense records to a single JSON file.
//
// Every operation is a full read of the file. Writes go to a temporary
// file in the same directory which is then renamed over the target, so a
// failed write never leaves a truncated ledger behind. There is no locking:
// two processes adding at the same time can lose one of the updates.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"expenses/internal/core"
	applog "expenses/internal/log"
)

// ErrCorrupt is returned when the ledger file exists but cannot be decoded.
var ErrCorrupt = errors.New("ledger file is corrupt")

// Store reads and writes the expense ledger at one file path.
type Store struct {
	path   string
	now    func() time.Time
	logger *applog.Logger

	// rename is os.Rename outside of tests.
	rename func(oldpath, newpath string) error
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used to date new records.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used when the context carries none.
func WithLogger(logger *applog.Logger) Option {
	return func(s *Store) { s.logger = logger.WithComponent(applog.ComponentLedger) }
}

// NewStore creates a store for the ledger file at path. The file is not
// touched until the first operation.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		now:    time.Now,
		logger: applog.Discard(),
		rename: os.Rename,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// log prefers the logger carried by ctx.
func (s *Store) log(ctx context.Context) *applog.Logger {
	return applog.FromContextOr(ctx, s.logger).WithComponent(applog.ComponentLedger)
}

// Path returns the ledger file location.
func (s *Store) Path() string {
	return s.path
}

// Load returns all records in insertion order. A missing file is an empty
// ledger; a file that does not decode yields an error wrapping ErrCorrupt.
func (s *Store) Load(ctx context.Context) ([]core.Expense, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log(ctx).DebugContext(ctx, "Ledger file not found, starting empty",
			applog.FieldOperation, applog.OpLoad,
			applog.FieldPath, s.path)
		return []core.Expense{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}

	var expenses []core.Expense
	if err := json.Unmarshal(data, &expenses); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, s.path, err)
	}
	if expenses == nil {
		// A literal "null" decodes without error.
		expenses = []core.Expense{}
	}

	s.log(ctx).DebugContext(ctx, "Ledger loaded",
		applog.FieldOperation, applog.OpLoad,
		applog.FieldPath, s.path,
		applog.FieldCount, len(expenses))
	return expenses, nil
}

// Add appends a record dated today and persists the whole ledger.
func (s *Store) Add(ctx context.Context, amount float64, category string) (core.Expense, error) {
	e := core.Expense{
		Amount:   amount,
		Category: category,
		Date:     core.DateOf(s.now()),
	}

	err := s.update(ctx, func(expenses []core.Expense) ([]core.Expense, error) {
		return append(expenses, e), nil
	})
	if err != nil {
		return core.Expense{}, fmt.Errorf("add expense: %w", err)
	}

	s.log(ctx).InfoContext(ctx, "Expense added",
		applog.NewFields().
			WithOperation(applog.OpAdd).
			WithExpense(e.Amount, e.Category, e.Date.String()).
			ToSlice()...)
	return e, nil
}

// Total returns the sum of all amounts.
func (s *Store) Total(ctx context.Context) (float64, error) {
	expenses, err := s.Load(ctx)
	if err != nil {
		return 0, err
	}
	total := core.Total(expenses)
	s.log(ctx).DebugContext(ctx, "Ledger totalled",
		applog.FieldOperation, applog.OpTotal,
		applog.FieldAmount, total)
	return total, nil
}

// ByCategory returns the records whose category equals cat exactly.
func (s *Store) ByCategory(ctx context.Context, cat string) ([]core.Expense, error) {
	expenses, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	matched := core.FilterByCategory(expenses, cat)
	s.log(ctx).DebugContext(ctx, "Ledger filtered",
		applog.FieldOperation, applog.OpFilter,
		applog.FieldCategory, cat,
		applog.FieldCount, len(matched))
	return matched, nil
}

// Summary returns per-category totals in order of first appearance.
func (s *Store) Summary(ctx context.Context) ([]core.CategoryTotal, error) {
	expenses, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	totals := core.TotalsByCategory(expenses)
	s.log(ctx).DebugContext(ctx, "Ledger summarised",
		applog.FieldOperation, applog.OpSummary,
		applog.FieldCount, len(totals))
	return totals, nil
}

// update is the single read-modify-write cycle over the ledger file.
func (s *Store) update(ctx context.Context, fn func([]core.Expense) ([]core.Expense, error)) error {
	expenses, err := s.Load(ctx)
	if err != nil {
		return err
	}
	expenses, err = fn(expenses)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.persist(ctx, expenses)
}

func (s *Store) persist(ctx context.Context, expenses []core.Expense) (err error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(expenses); err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
			s.log(ctx).WarnContext(ctx, "Ledger write aborted, original left untouched",
				applog.NewFields().
					WithOperation(applog.OpPersist).
					WithPath(s.path).
					WithError(err).
					ToSlice()...)
		}
	}()

	if _, err = tmp.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = s.rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}
