package ledger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"expenses/internal/core"
	applog "expenses/internal/log"
)

var today = time.Date(2026, 10, 17, 9, 30, 0, 0, time.Local)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	return NewStore(path, WithClock(func() time.Time { return today }))
}

func mustAdd(t *testing.T, s *Store, amount float64, category string) core.Expense {
	t.Helper()
	e, err := s.Add(context.Background(), amount, category)
	if err != nil {
		t.Fatalf("Add(%v, %q): %v", amount, category, err)
	}
	return e
}

func TestMissingFile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	expenses, err := s.Load(ctx)
	if err != nil || expenses == nil || len(expenses) != 0 {
		t.Fatalf("Load on missing file: expenses=%#v err=%v", expenses, err)
	}
	total, err := s.Total(ctx)
	if err != nil || total != 0 {
		t.Fatalf("Total on missing file: total=%v err=%v", total, err)
	}
	food, err := s.ByCategory(ctx, "food")
	if err != nil || food == nil || len(food) != 0 {
		t.Fatalf("ByCategory on missing file: %#v err=%v", food, err)
	}
	if _, err := os.Stat(s.Path()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("reads must not create the file, stat err=%v", err)
	}
}

func TestAddTotalByCategory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustAdd(t, s, 12.50, "food")
	mustAdd(t, s, 7, "transport")
	mustAdd(t, s, 2.5, "food")

	total, err := s.Total(ctx)
	if err != nil {
		t.Fatalf("Total: %v", err)
	}
	if total != 22.0 {
		t.Errorf("Total = %v, want 22", total)
	}

	food, err := s.ByCategory(ctx, "food")
	if err != nil {
		t.Fatalf("ByCategory: %v", err)
	}
	d := core.NewDate(2026, 10, 17)
	want := []core.Expense{
		{Amount: 12.5, Category: "food", Date: d},
		{Amount: 2.5, Category: "food", Date: d},
	}
	if diff := cmp.Diff(want, food); diff != "" {
		t.Errorf("ByCategory mismatch (-want +got):\n%s", diff)
	}

	for _, cat := range []string{"Food", "food ", ""} {
		got, err := s.ByCategory(ctx, cat)
		if err != nil || len(got) != 0 {
			t.Errorf("ByCategory(%q) = %v, %v; want exact match only", cat, got, err)
		}
	}
}

func TestSumOfManyAdds(t *testing.T) {
	s := newTestStore(t)
	amounts := []float64{1, 2.25, 3.5, 10, 0.75, 42}
	var want float64
	for i, a := range amounts {
		mustAdd(t, s, a, []string{"a", "b"}[i%2])
		want += a
	}
	total, err := s.Total(context.Background())
	if err != nil {
		t.Fatalf("Total: %v", err)
	}
	if total != want {
		t.Errorf("Total = %v, want %v", total, want)
	}
}

func TestRoundTripAppendsToExistingFile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustAdd(t, s, 5, "books")
	before, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	added := mustAdd(t, s, 3, "coffee")
	after, err := NewStore(s.Path()).Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if diff := cmp.Diff(append(before, added), after); diff != "" {
		t.Errorf("reloaded ledger mismatch (-want +got):\n%s", diff)
	}
}

func TestSummary(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, 12.5, "food")
	mustAdd(t, s, 7, "transport")
	mustAdd(t, s, 2.5, "food")

	got, err := s.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	want := []core.CategoryTotal{{Name: "food", Amount: 15}, {Name: "transport", Amount: 7}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Summary mismatch (-want +got):\n%s", diff)
	}
}

func TestReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	content := `[{"amount": 12.5, "category": "food", "date": "2024-05-01"},
{"amount": 7.0, "category": "transport", "date": "2024-05-02"}]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	total, err := NewStore(path).Total(context.Background())
	if err != nil {
		t.Fatalf("Total: %v", err)
	}
	if total != 19.5 {
		t.Errorf("Total = %v, want 19.5", total)
	}
}

func TestCorruptFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"garbage", "not json"},
		{"truncated", `[{"amount": 1, "category": "a"`},
		{"empty", ""},
		{"object", `{"amount": 1}`},
		{"bad_date", `[{"amount": 1, "category": "a", "date": "17/10/2026"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			s := NewStore(path)
			ctx := context.Background()

			if _, err := s.Load(ctx); !errors.Is(err, ErrCorrupt) {
				t.Errorf("Load error = %v, want ErrCorrupt", err)
			}
			if _, err := s.Total(ctx); !errors.Is(err, ErrCorrupt) {
				t.Errorf("Total error = %v, want ErrCorrupt", err)
			}
			if _, err := s.Add(ctx, 1, "a"); !errors.Is(err, ErrCorrupt) {
				t.Errorf("Add error = %v, want ErrCorrupt", err)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("read back: %v", err)
			}
			if string(data) != tt.content {
				t.Errorf("corrupt file was modified: %q", data)
			}
		})
	}
}

func TestFailedRenameKeepsOriginal(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustAdd(t, s, 12.5, "food")

	original, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	crash := errors.New("simulated crash")
	s.rename = func(oldpath, newpath string) error {
		if _, err := os.Stat(oldpath); err != nil {
			t.Errorf("temp file should exist before rename: %v", err)
		}
		return crash
	}
	if _, err := s.Add(ctx, 7, "transport"); !errors.Is(err, crash) {
		t.Fatalf("Add error = %v, want simulated crash", err)
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read after failure: %v", err)
	}
	if string(data) != string(original) {
		t.Errorf("original changed:\nbefore %s\nafter  %s", original, data)
	}

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("temp file left behind: %v", entries)
	}
}

func TestPersistedFormat(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, 12.5, "food")

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "[\n  {\n    \"amount\": 12.5,\n    \"category\": \"food\",\n    \"date\": \"2026-10-17\"\n  }\n]\n"
	if string(data) != want {
		t.Errorf("file content:\n%s\nwant:\n%s", data, want)
	}
}

func TestCancelledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Add(ctx, 1, "a"); !errors.Is(err, context.Canceled) {
		t.Errorf("Add error = %v, want context.Canceled", err)
	}
	if _, err := os.Stat(s.Path()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("cancelled add must not create the file")
	}
}

func TestDatelessRecordSurvivesAdd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(`[{"amount": 5, "category": "food"}]`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s := NewStore(path, WithClock(func() time.Time { return today }))
	ctx := context.Background()

	before, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	added := mustAdd(t, s, 1, "x")

	after, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("reload after Add: %v", err)
	}
	if diff := cmp.Diff(append(before, added), after); diff != "" {
		t.Errorf("reloaded ledger mismatch (-want +got):\n%s", diff)
	}
}

func TestLogsThroughContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := applog.New(applog.Config{Level: slog.LevelDebug, Output: &buf})
	ctx := applog.NewContext(context.Background(), logger)
	s := newTestStore(t)

	if _, err := s.Add(ctx, 3, "coffee"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := s.Total(ctx); err != nil {
		t.Fatalf("Total: %v", err)
	}
	if _, err := s.ByCategory(ctx, "coffee"); err != nil {
		t.Fatalf("ByCategory: %v", err)
	}
	if _, err := s.Summary(ctx); err != nil {
		t.Fatalf("Summary: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"component=ledger",
		"operation=load",
		"operation=add",
		"operation=total",
		"operation=by_category",
		"operation=summary",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
