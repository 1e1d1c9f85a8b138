package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadByName(t *testing.T) {
	csvData := `Time,Signal
0.0,1.5
0.1,1.2
0.2,0.7`

	tbl, err := Read(strings.NewReader(csvData), DefaultOptions())
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if tbl.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", tbl.Len())
	}

	signal, err := tbl.Column("Signal")
	if err != nil {
		t.Fatalf("column failed: %v", err)
	}

	expected := []float64{1.5, 1.2, 0.7}
	for i, v := range expected {
		if signal[i] != v {
			t.Errorf("row %d: expected %f, got %f", i, v, signal[i])
		}
	}
}

func TestReadMissingColumn(t *testing.T) {
	tbl, err := Read(strings.NewReader("a,b\n1,2\n"), DefaultOptions())
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if _, err := tbl.Column("Signal"); !errors.Is(err, ErrColumnNotFound) {
		t.Errorf("expected ErrColumnNotFound, got %v", err)
	}
	if _, err := tbl.Float(5); !errors.Is(err, ErrColumnNotFound) {
		t.Errorf("expected ErrColumnNotFound for index 5, got %v", err)
	}
}

func TestReadParseError(t *testing.T) {
	tbl, err := Read(strings.NewReader("v,u\n1,0.1\nabc,0.2\n"), DefaultOptions())
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	_, err = tbl.Float(0)
	if !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Row != 3 || pe.Value != "abc" {
		t.Errorf("unexpected parse error context: row %d value %q", pe.Row, pe.Value)
	}
}

func TestReadNonFinite(t *testing.T) {
	tests := []struct {
		name string
		data string
		row  int
	}{
		{"nan", "v\n1\nNaN\n", 3},
		{"inf", "v\nInf\n2\n", 2},
		{"signed inf", "v\n1\n2\n-Inf\n", 4},
	}

	for _, tt := range tests {
		tbl, err := Read(strings.NewReader(tt.data), DefaultOptions())
		if err != nil {
			t.Fatalf("%s: read failed: %v", tt.name, err)
		}

		_, err = tbl.Float(0)
		if !errors.Is(err, ErrParse) || !errors.Is(err, ErrNonFinite) {
			t.Errorf("%s: expected ErrParse and ErrNonFinite, got %v", tt.name, err)
			continue
		}
		var pe *ParseError
		if errors.As(err, &pe) && pe.Row != tt.row {
			t.Errorf("%s: expected row %d, got %d", tt.name, tt.row, pe.Row)
		}
	}
}

func TestReadWhitespaceAndSkip(t *testing.T) {
	data := `# instrument log
x   y
1   10
2   20
`
	opts := &Options{Delimiter: 0, SkipRows: 0, HasHeader: true}
	tbl, err := Read(strings.NewReader(data), opts)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	y, err := tbl.Column("y")
	if err != nil {
		t.Fatalf("column failed: %v", err)
	}
	if len(y) != 2 || y[1] != 20 {
		t.Errorf("unexpected y: %v", y)
	}

	opts = &Options{Delimiter: ';', SkipRows: 2}
	tbl, err = Read(strings.NewReader("junk\nmore junk\n1;2\n3;4\n"), opts)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if tbl.Len() != 2 {
		t.Errorf("expected 2 rows after skip, got %d", tbl.Len())
	}
}

func TestLoadXY(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte("Time,Signal\n0,1\n1,2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	x, y, err := LoadXY(path, "Time", "Signal")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(x) != 2 || len(y) != 2 {
		t.Errorf("expected 2 points, got %d/%d", len(x), len(y))
	}

	if _, _, err := LoadXY(filepath.Join(t.TempDir(), "missing.csv"), "Time", "Signal"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}
