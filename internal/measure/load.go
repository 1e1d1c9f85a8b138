package measure

import (
	"fmt"
	"io"

	"github.com/san-kum/labfit/internal/dataset"
)

// FromArrays pairs values with uncertainties by index.
func FromArrays(values, uncertainties []float64) ([]Measurement, error) {
	if len(values) != len(uncertainties) {
		return nil, fmt.Errorf("%w: %d values, %d uncertainties", ErrLengthMismatch, len(values), len(uncertainties))
	}

	ms := make([]Measurement, len(values))
	for i := range values {
		ms[i] = New(values[i], uncertainties[i])
	}
	return ms, nil
}

// TableOption configures delimited-file loading.
type TableOption func(*dataset.Options)

// WithDelimiter sets the field separator. 0 splits on whitespace.
func WithDelimiter(d rune) TableOption {
	return func(o *dataset.Options) { o.Delimiter = d }
}

// WithSkipRows sets how many leading rows are skipped.
func WithSkipRows(n int) TableOption {
	return func(o *dataset.Options) { o.SkipRows = n }
}

func tableOptions(opts []TableOption) *dataset.Options {
	o := &dataset.Options{Delimiter: ',', SkipRows: 1}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// FromDelimitedFile reads one measurement per row from the given value and
// uncertainty columns. By default the file is comma separated with a single
// header row.
func FromDelimitedFile(path string, valueCol, uncertaintyCol int, opts ...TableOption) ([]Measurement, error) {
	tbl, err := dataset.Load(path, tableOptions(opts))
	if err != nil {
		return nil, err
	}
	return fromTable(tbl, valueCol, uncertaintyCol)
}

// FromReader is FromDelimitedFile for an arbitrary reader.
func FromReader(r io.Reader, valueCol, uncertaintyCol int, opts ...TableOption) ([]Measurement, error) {
	tbl, err := dataset.Read(r, tableOptions(opts))
	if err != nil {
		return nil, err
	}
	return fromTable(tbl, valueCol, uncertaintyCol)
}

func fromTable(tbl *dataset.Table, valueCol, uncertaintyCol int) ([]Measurement, error) {
	values, err := tbl.Float(valueCol)
	if err != nil {
		return nil, fmt.Errorf("value column: %w", err)
	}
	uncertainties, err := tbl.Float(uncertaintyCol)
	if err != nil {
		return nil, fmt.Errorf("uncertainty column: %w", err)
	}
	return FromArrays(values, uncertainties)
}
