package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"finboard/internal/core"
)

const seed = `categories:
  labels: [Food, Rent]
  values: ["12.5", 30]
income_categories:
  labels: [Salary]
  values: [1000]
monthly:
  months: [Jan, Feb]
  income: [100, "x"]
  expense: [40, null]
`

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.yaml")
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := NewFromFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	d, _ := s.ReadDashboard(context.Background())
	if got := core.Normalize(d.Categories.Values); got[0] != 12.5 || got[1] != 30 {
		t.Fatalf("unexpected categories %v", got)
	}
	if got := core.Normalize(d.Monthly.Expense); len(got) != 2 || got[1] != 0 {
		t.Fatalf("unexpected expense %v", got)
	}
}

func TestNewFromFileMissingUsesSample(t *testing.T) {
	s, err := NewFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing seed should not fail: %v", err)
	}
	d, _ := s.ReadDashboard(context.Background())
	if d.IsEmpty() {
		t.Fatalf("expected sample data")
	}
}

func TestNewFromFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("categories: [unclosed"), 0o644)
	if _, err := NewFromFile(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestReplaceIsolatesCallers(t *testing.T) {
	ctx := context.Background()
	s := New(core.Dashboard{})
	in := core.Dashboard{Categories: core.Series{Labels: []string{"A"}, Values: []any{1}}}
	if err := s.ReplaceDashboard(ctx, in); err != nil {
		t.Fatal(err)
	}
	in.Categories.Labels[0] = "mutated"

	out, _ := s.ReadDashboard(ctx)
	if out.Categories.Labels[0] != "A" {
		t.Fatalf("store shares backing array with caller")
	}
	out.Categories.Labels[0] = "changed"
	again, _ := s.ReadDashboard(ctx)
	if again.Categories.Labels[0] != "A" {
		t.Fatalf("reader mutation leaked into store")
	}
}
