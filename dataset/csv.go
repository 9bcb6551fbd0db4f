package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/YuminosukeSato/modelcmp/pkg/errors"
)

// ReadCSV loads a dataset from a headered CSV file. A column whose values
// all parse as floats becomes numeric; anything else becomes categorical.
func ReadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()
	return FromCSV(f)
}

// FromCSV parses CSV data with a header row.
func FromCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read csv header")
	}

	raw := make([][]string, len(header))
	n := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read csv row %d", n+1)
		}
		if len(record) != len(header) {
			return nil, errors.NewDimensionError("FromCSV", len(header), len(record), 1)
		}
		for j, v := range record {
			raw[j] = append(raw[j], v)
		}
		n++
	}
	if n == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "FromCSV")
	}

	ds := New(n)
	for j, name := range header {
		if floats, ok := parseFloats(raw[j]); ok {
			if err := ds.AddNumeric(name, floats); err != nil {
				return nil, err
			}
			continue
		}
		if err := ds.AddCategorical(name, raw[j]); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

func parseFloats(values []string) ([]float64, bool) {
	out := make([]float64, len(values))
	for i, v := range values {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}
