package series

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/go-gota/gota/dataframe"
	gseries "github.com/go-gota/gota/series"
	"github.com/ulikunitz/xz"
)

// ReadCSV reads a series from CSV with a header row. columns selects and
// orders the variables; with no columns every column is used and must be
// numeric. Empty or non-numeric cells in a selected column are rejected
// with ErrMissingValue.
func ReadCSV(r io.Reader, columns ...string) (*Series, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(gseries.Float),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", df.Err)
	}
	if df.Nrow() == 0 {
		return nil, ErrEmpty
	}

	names := df.Names()
	if len(columns) == 0 {
		columns = names
	}
	cols := make([][]float64, len(columns))
	for j, name := range columns {
		if !slices.Contains(names, name) {
			return nil, fmt.Errorf("%w: %q (have %s)", ErrColumn, name, strings.Join(names, ", "))
		}
		cols[j] = df.Col(name).Float()
	}

	s, err := Stack(cols...)
	if err != nil {
		return nil, err
	}
	if s, err = s.WithNames(columns...); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Open reads a CSV file with ReadCSV. Files ending in ".xz" are
// decompressed on the fly.
func Open(path string, columns ...string) (*Series, error) {
	//nolint:gosec // G304: data paths come from the caller
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = bufio.NewReader(f)
	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open xz stream %s: %w", path, err)
		}
		r = xr
	}

	s, err := ReadCSV(r, columns...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// WriteCSV writes s as CSV with a header row of variable names.
func (s *Series) WriteCSV(w io.Writer) error {
	cols := make([]gseries.Series, s.width)
	for j := range cols {
		cols[j] = gseries.New(s.Column(j), gseries.Float, s.names[j])
	}
	if err := dataframe.New(cols...).WriteCSV(w); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// Create writes s to a CSV file at path. Paths ending in ".xz" are
// xz-compressed.
func (s *Series) Create(path string) (err error) {
	//nolint:gosec // G304: output paths come from the caller
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if !strings.HasSuffix(path, ".xz") {
		return s.WriteCSV(f)
	}
	xw, err := xz.NewWriter(f)
	if err != nil {
		return fmt.Errorf("failed to open xz stream %s: %w", path, err)
	}
	if err := s.WriteCSV(xw); err != nil {
		return err
	}
	return xw.Close()
}
