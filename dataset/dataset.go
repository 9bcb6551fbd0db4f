// Package dataset provides the tabular container consumed by the evaluators:
// ordered named columns sharing one schema, with one column designated as
// the prediction target at evaluation time.
package dataset

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelcmp/pkg/errors"
)

// TargetKind tags the evaluation mode implied by the target column.
// It is determined once at the boundary; everything downstream branches on
// the tag rather than re-inspecting column types.
type TargetKind int

const (
	// TargetBinary selects cross-validated classification. The target is a
	// categorical column with exactly two levels.
	TargetBinary TargetKind = iota

	// TargetContinuous selects the train/test regression sweep. The target
	// is a numeric column.
	TargetContinuous
)

func (k TargetKind) String() string {
	switch k {
	case TargetBinary:
		return "binary"
	case TargetContinuous:
		return "continuous"
	default:
		return "unknown"
	}
}

// Column is one named column, either numeric or categorical. Exactly one of
// Floats and Labels is non-nil.
type Column struct {
	Name   string
	Floats []float64
	Labels []string
}

// IsNumeric reports whether the column holds numeric values.
func (c Column) IsNumeric() bool { return c.Floats != nil }

// Dataset is an ordered collection of equally sized columns. It is read-only
// input owned by the caller; the evaluators never mutate it.
type Dataset struct {
	cols []Column
	n    int
}

// New creates an empty dataset expecting nRows rows per column.
func New(nRows int) *Dataset {
	return &Dataset{n: nRows}
}

// NumRows returns the number of rows.
func (d *Dataset) NumRows() int { return d.n }

// ColumnNames returns the column names in insertion order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.cols))
	for i, c := range d.cols {
		names[i] = c.Name
	}
	return names
}

// AddNumeric appends a numeric column.
func (d *Dataset) AddNumeric(name string, values []float64) error {
	if len(values) != d.n {
		return errors.NewDimensionError("Dataset.AddNumeric", d.n, len(values), 0)
	}
	if d.has(name) {
		return errors.NewValidationError("name", "duplicate column", name)
	}
	d.cols = append(d.cols, Column{Name: name, Floats: values})
	return nil
}

// AddCategorical appends a categorical column.
func (d *Dataset) AddCategorical(name string, values []string) error {
	if len(values) != d.n {
		return errors.NewDimensionError("Dataset.AddCategorical", d.n, len(values), 0)
	}
	if d.has(name) {
		return errors.NewValidationError("name", "duplicate column", name)
	}
	d.cols = append(d.cols, Column{Name: name, Labels: values})
	return nil
}

func (d *Dataset) has(name string) bool {
	for _, c := range d.cols {
		if c.Name == name {
			return true
		}
	}
	return false
}

func (d *Dataset) column(name string) (Column, bool) {
	for _, c := range d.cols {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Levels returns the distinct values of a categorical column in sorted
// order. The second level is the positive class by policy.
func (d *Dataset) Levels(name string) ([]string, error) {
	col, ok := d.column(name)
	if !ok {
		return nil, errors.NewValidationError("target", "column not found", name)
	}
	if col.IsNumeric() {
		return nil, errors.NewValueError("Dataset.Levels", "column is numeric, not categorical")
	}
	seen := make(map[string]bool)
	var levels []string
	for _, v := range col.Labels {
		if !seen[v] {
			seen[v] = true
			levels = append(levels, v)
		}
	}
	sort.Strings(levels)
	return levels, nil
}

// TargetKind inspects the named target column and returns the evaluation
// mode it implies. A categorical target with other than two levels is a
// fatal configuration error.
func (d *Dataset) TargetKind(target string) (TargetKind, error) {
	col, ok := d.column(target)
	if !ok {
		return 0, errors.NewValidationError("target", "column not found", target)
	}
	if col.IsNumeric() {
		return TargetContinuous, nil
	}
	levels, err := d.Levels(target)
	if err != nil {
		return 0, err
	}
	if len(levels) != 2 {
		return 0, errors.NewValidationError("target",
			"categorical target must have exactly two levels", len(levels))
	}
	return TargetBinary, nil
}

// DesignMatrix builds the feature matrix for the given target: every other
// column in order, numeric columns as-is and categorical columns one-hot
// encoded with the first sorted level dropped.
func (d *Dataset) DesignMatrix(target string) (*mat.Dense, error) {
	if !d.has(target) {
		return nil, errors.NewValidationError("target", "column not found", target)
	}
	if d.n == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "DesignMatrix")
	}

	var featureCols [][]float64
	for _, c := range d.cols {
		if c.Name == target {
			continue
		}
		if c.IsNumeric() {
			featureCols = append(featureCols, c.Floats)
			continue
		}
		levels, err := d.Levels(c.Name)
		if err != nil {
			return nil, err
		}
		// Indicator per level beyond the first.
		for _, level := range levels[1:] {
			ind := make([]float64, d.n)
			for i, v := range c.Labels {
				if v == level {
					ind[i] = 1
				}
			}
			featureCols = append(featureCols, ind)
		}
	}
	if len(featureCols) == 0 {
		return nil, errors.NewValueError("DesignMatrix", "dataset has no feature columns")
	}

	X := mat.NewDense(d.n, len(featureCols), nil)
	for j, col := range featureCols {
		for i, v := range col {
			X.Set(i, j, v)
		}
	}
	return X, nil
}

// TargetVector extracts the target as an n×1 vector. Continuous targets are
// returned verbatim; binary targets are encoded 0/1 by sorted level index,
// so index 1 is the positive class.
func (d *Dataset) TargetVector(target string) (*mat.VecDense, error) {
	col, ok := d.column(target)
	if !ok {
		return nil, errors.NewValidationError("target", "column not found", target)
	}
	y := mat.NewVecDense(d.n, nil)
	if col.IsNumeric() {
		for i, v := range col.Floats {
			y.SetVec(i, v)
		}
		return y, nil
	}

	levels, err := d.Levels(target)
	if err != nil {
		return nil, err
	}
	if len(levels) != 2 {
		return nil, errors.NewValidationError("target",
			"categorical target must have exactly two levels", len(levels))
	}
	for i, v := range col.Labels {
		if v == levels[1] {
			y.SetVec(i, 1)
		}
	}
	return y, nil
}
