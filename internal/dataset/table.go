package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

var (
	ErrColumnNotFound = errors.New("dataset: column not found")
	ErrParse          = errors.New("dataset: malformed numeric field")
	ErrEmpty          = errors.New("dataset: no data rows")
	ErrNonFinite      = errors.New("dataset: value is not finite")
)

// ParseError reports a cell that could not be read as a float.
type ParseError struct {
	Row    int // 1-based record number, header rows included
	Column int
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dataset: row %d column %d: cannot read %q as a finite number: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}

// Options holds options for table loading.
type Options struct {
	Delimiter rune // Field delimiter; 0 splits on runs of whitespace
	SkipRows  int  // Rows to skip before the header / data
	HasHeader bool // Whether the first row after SkipRows names the columns
}

// DefaultOptions returns comma-separated options with a header row.
func DefaultOptions() *Options {
	return &Options{
		Delimiter: ',',
		HasHeader: true,
	}
}

// Table is a delimited text table held as raw string records.
type Table struct {
	Header  []string
	Records [][]string

	firstRow int
}

// Load reads a table from a file.
func Load(filename string, opts *Options) (*Table, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Read(file, opts)
}

// Read reads a table from r.
func Read(r io.Reader, opts *Options) (*Table, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	var records [][]string
	var err error
	if opts.Delimiter == 0 {
		records, err = readFields(r)
	} else {
		records, err = readCSV(r, opts.Delimiter)
	}
	if err != nil {
		return nil, err
	}

	skip := opts.SkipRows
	if skip > len(records) {
		skip = len(records)
	}
	records = records[skip:]

	t := &Table{firstRow: skip + 1}
	if opts.HasHeader && len(records) > 0 {
		t.Header = make([]string, len(records[0]))
		for i, h := range records[0] {
			t.Header[i] = strings.TrimSpace(strings.Trim(h, "\""))
		}
		records = records[1:]
		t.firstRow++
	}
	t.Records = records

	return t, nil
}

func readCSV(r io.Reader, delim rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delim
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	reader.Comment = '#'

	return reader.ReadAll()
}

func readFields(r io.Reader) ([][]string, error) {
	var records [][]string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		records = append(records, strings.Fields(line))
	}
	return records, sc.Err()
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Records) }

// Index returns the position of the named header column.
func (t *Table) Index(name string) (int, error) {
	for i, h := range t.Header {
		if h == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q (have %v)", ErrColumnNotFound, name, t.Header)
}

// Float parses column idx of every data row.
func (t *Table) Float(idx int) ([]float64, error) {
	if idx < 0 || (len(t.Header) > 0 && idx >= len(t.Header)) {
		return nil, fmt.Errorf("%w: index %d", ErrColumnNotFound, idx)
	}

	values := make([]float64, 0, len(t.Records))
	for i, record := range t.Records {
		if idx >= len(record) {
			return nil, fmt.Errorf("%w: index %d (row %d has %d columns)", ErrColumnNotFound, idx, t.firstRow+i, len(record))
		}
		raw := strings.TrimSpace(strings.Trim(record[idx], "\""))
		v, err := strconv.ParseFloat(raw, 64)
		if err == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
			err = ErrNonFinite
		}
		if err != nil {
			return nil, &ParseError{Row: t.firstRow + i, Column: idx, Value: raw, Err: err}
		}
		values = append(values, v)
	}

	return values, nil
}

// Column parses the named header column.
func (t *Table) Column(name string) ([]float64, error) {
	idx, err := t.Index(name)
	if err != nil {
		return nil, err
	}
	return t.Float(idx)
}

// LoadXY loads two named columns as equal-length series.
func LoadXY(filename, xName, yName string) ([]float64, []float64, error) {
	t, err := Load(filename, DefaultOptions())
	if err != nil {
		return nil, nil, err
	}
	if t.Len() == 0 {
		return nil, nil, fmt.Errorf("%s: %w", filename, ErrEmpty)
	}

	x, err := t.Column(xName)
	if err != nil {
		return nil, nil, err
	}
	y, err := t.Column(yName)
	if err != nil {
		return nil, nil, err
	}

	return x, y, nil
}
