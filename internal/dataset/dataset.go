package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ErrDatasetLoad is matched by every error returned from Load.
var ErrDatasetLoad = errors.New("dataset load failed")

// ErrUnknownColumn is returned when a column name is not in the dataset.
var ErrUnknownColumn = errors.New("unknown column")

// DatasetLoadError reports why the dataset file could not be turned into a table.
type DatasetLoadError struct {
	Path string
	Err  error
}

func (e *DatasetLoadError) Error() string {
	return fmt.Sprintf("load dataset %s: %v", e.Path, e.Err)
}

func (e *DatasetLoadError) Unwrap() error { return e.Err }

func (e *DatasetLoadError) Is(target error) bool { return target == ErrDatasetLoad }

// Options controls how the dataset file is read.
type Options struct {
	// Delimiter for the file. If 0, picked from the extension ('\t' for .tsv, ',' otherwise).
	Delimiter rune
	// Categorical columns are always read as strings, even when their labels look numeric.
	Categorical []string
}

// Dataset is the read-only table loaded at startup. All accessors return copies.
type Dataset struct {
	name string
	df   dataframe.DataFrame
}

// Load reads a delimited file with a header row into a Dataset.
func Load(path string, opt Options) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DatasetLoadError{Path: path, Err: err}
	}
	defer f.Close()
	if opt.Delimiter == 0 {
		opt.Delimiter = sniffDelimiter(path)
	}
	ds, err := FromReader(filepath.Base(path), f, opt)
	if err != nil {
		var le *DatasetLoadError
		if errors.As(err, &le) {
			le.Path = path
		}
		return nil, err
	}
	return ds, nil
}

// FromReader builds a Dataset from delimited text. name is used in summaries.
func FromReader(name string, r io.Reader, opt Options) (*Dataset, error) {
	if opt.Delimiter == 0 {
		opt.Delimiter = ','
	}
	types := make(map[string]series.Type, len(opt.Categorical))
	for _, c := range opt.Categorical {
		types[c] = series.String
	}
	df := dataframe.ReadCSV(r,
		dataframe.WithDelimiter(opt.Delimiter),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.WithTypes(types),
		dataframe.NaNValues([]string{"", "NA", "NaN", "nan", "<nil>"}),
	)
	if df.Err != nil {
		return nil, &DatasetLoadError{Path: name, Err: df.Err}
	}
	if df.Ncol() == 0 {
		return nil, &DatasetLoadError{Path: name, Err: errors.New("no columns")}
	}
	return &Dataset{name: name, df: df}, nil
}

// Name returns the base name of the source file.
func (d *Dataset) Name() string { return d.name }

// Rows returns the number of data rows.
func (d *Dataset) Rows() int { return d.df.Nrow() }

// Columns returns the column names in file order.
func (d *Dataset) Columns() []string { return d.df.Names() }

// Has reports whether the dataset contains column name.
func (d *Dataset) Has(name string) bool {
	for _, c := range d.df.Names() {
		if c == name {
			return true
		}
	}
	return false
}

// NumericColumns returns the columns typed as int or float, in file order.
func (d *Dataset) NumericColumns() []string {
	var out []string
	names := d.df.Names()
	for i, t := range d.df.Types() {
		if t == series.Int || t == series.Float {
			out = append(out, names[i])
		}
	}
	return out
}

// Floats returns the values of a column as float64; missing or
// non-numeric cells are NaN.
func (d *Dataset) Floats(name string) ([]float64, error) {
	s, err := d.col(name)
	if err != nil {
		return nil, err
	}
	return s.Float(), nil
}

// Strings returns the values of a column as text; missing cells are "".
func (d *Dataset) Strings(name string) ([]string, error) {
	s, err := d.col(name)
	if err != nil {
		return nil, err
	}
	recs := s.Records()
	for i, isNaN := range s.IsNaN() {
		if isNaN {
			recs[i] = ""
		}
	}
	return recs, nil
}

func (d *Dataset) col(name string) (series.Series, error) {
	if !d.Has(name) {
		return series.Series{}, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}
	s := d.df.Col(name)
	if s.Err != nil {
		return series.Series{}, fmt.Errorf("column %s: %w", name, s.Err)
	}
	return s, nil
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}
