package measure

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/labfit/internal/dataset"
)

func TestFromArrays(t *testing.T) {
	ms, err := FromArrays([]float64{1.0, 2.0, 3.0}, []float64{0.1, 0.2, 0.3})
	if err != nil {
		t.Fatalf("from arrays failed: %v", err)
	}

	expected := []Measurement{New(1.0, 0.1), New(2.0, 0.2), New(3.0, 0.3)}
	if len(ms) != len(expected) {
		t.Fatalf("expected %d measurements, got %d", len(expected), len(ms))
	}
	for i := range expected {
		if ms[i] != expected[i] {
			t.Errorf("index %d: expected %v, got %v", i, expected[i], ms[i])
		}
	}
}

func TestFromArraysLengthMismatch(t *testing.T) {
	_, err := FromArrays([]float64{1, 2, 3}, []float64{0.1, 0.2})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestFromDelimitedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.csv")
	content := "length,err,note\n10.0,0.1,a\n5.0,-0.2,b\n2.5,0.05,c\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	ms, err := FromDelimitedFile(path, 0, 1)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	expected := []Measurement{New(10.0, 0.1), New(5.0, 0.2), New(2.5, 0.05)}
	if len(ms) != 3 {
		t.Fatalf("expected 3 measurements, got %d", len(ms))
	}
	for i := range expected {
		if ms[i] != expected[i] {
			t.Errorf("row %d: expected %v, got %v", i, expected[i], ms[i])
		}
	}
}

func TestFromDelimitedFileErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := FromDelimitedFile(filepath.Join(dir, "missing.csv"), 0, 1); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: expected ErrNotExist, got %v", err)
	}

	path := filepath.Join(dir, "bad.csv")
	if err := os.WriteFile(path, []byte("v,u\n1,0.1\nx,0.2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := FromDelimitedFile(path, 0, 1); !errors.Is(err, dataset.ErrParse) {
		t.Errorf("malformed cell: expected ErrParse, got %v", err)
	}
	if _, err := FromDelimitedFile(path, 1, 7); !errors.Is(err, dataset.ErrColumnNotFound) {
		t.Errorf("bad column: expected ErrColumnNotFound, got %v", err)
	}
}

func TestFromReaderNonFinite(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"nan value", "v,u\nNaN,0.1\n2,0.2\n"},
		{"inf uncertainty", "v,u\n1,0.1\n2,Inf\n"},
		{"signed inf", "v,u\n+Inf,0.1\n"},
	}

	for _, tt := range tests {
		ms, err := FromReader(strings.NewReader(tt.data), 0, 1)
		if !errors.Is(err, dataset.ErrNonFinite) {
			t.Errorf("%s: expected ErrNonFinite, got %v (%v)", tt.name, err, ms)
		}
	}
}

func TestFromReaderOptions(t *testing.T) {
	data := "# run 4\n# operator: lab\n1.5\t0.1\n2.5\t0.3\n"

	ms, err := FromReader(strings.NewReader(data), 0, 1, WithDelimiter(0), WithSkipRows(0))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(ms) != 2 || ms[1] != New(2.5, 0.3) {
		t.Errorf("unexpected measurements: %v", ms)
	}

	ms, err = FromReader(strings.NewReader("a;b\nc;d\n4;0.4\n"), 0, 1, WithDelimiter(';'), WithSkipRows(2))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(ms) != 1 || ms[0] != New(4, 0.4) {
		t.Errorf("unexpected measurements: %v", ms)
	}
}
