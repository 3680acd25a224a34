package submission

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func testSubmission(data map[string]any) *Submission {
	return &Submission{
		ID:          uuid.New(),
		FormID:      uuid.New(),
		Data:        data,
		SubmittedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestRenderCSV_HeaderAndRows(t *testing.T) {
	subs := []*Submission{
		testSubmission(map[string]any{"name": "Ana", "email": "ana@example.com"}),
		testSubmission(map[string]any{"name": "Marko", "email": "marko@example.com"}),
	}

	out, err := renderCSV(subs)
	if err != nil {
		t.Fatalf("renderCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "id,submitted_at,email,name" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "ana@example.com,Ana") {
		t.Errorf("first row = %q", lines[1])
	}
	if !strings.Contains(lines[1], "2026-03-14 09:30:00") {
		t.Errorf("timestamp missing from row: %q", lines[1])
	}
}

// Columns come strictly from the first submission. Extra keys in later rows
// are dropped, missing keys render blank.
func TestRenderCSV_ColumnsFromFirstSubmission(t *testing.T) {
	subs := []*Submission{
		testSubmission(map[string]any{"a": "first"}),
		testSubmission(map[string]any{"a": "second", "extra": "dropped"}),
		testSubmission(map[string]any{"unrelated": "ignored"}),
	}

	out, err := renderCSV(subs)
	if err != nil {
		t.Fatalf("renderCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if lines[0] != "id,submitted_at,a" {
		t.Errorf("header = %q", lines[0])
	}
	if strings.Contains(string(out), "dropped") {
		t.Error("keys absent from the first submission must not be exported")
	}
	// Third row has no "a" key: trailing cell is blank
	if !strings.HasSuffix(lines[3], ",") {
		t.Errorf("missing key should render as a blank cell: %q", lines[3])
	}
}

func TestRenderCSV_SortedColumns(t *testing.T) {
	subs := []*Submission{
		testSubmission(map[string]any{"zeta": "1", "alpha": "2", "mid": "3"}),
	}

	out, err := renderCSV(subs)
	if err != nil {
		t.Fatalf("renderCSV failed: %v", err)
	}

	header := strings.SplitN(string(out), "\n", 2)[0]
	if header != "id,submitted_at,alpha,mid,zeta" {
		t.Errorf("columns should be sorted, got %q", header)
	}
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, ""},
		{"string", "hello", "hello"},
		{"whole float", float64(42), "42"},
		{"fractional float", 3.5, "3.5"},
		{"bool", true, "true"},
		{"slice", []any{"a", "b"}, "[a b]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatCell(tt.value); got != tt.want {
				t.Errorf("formatCell(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}
