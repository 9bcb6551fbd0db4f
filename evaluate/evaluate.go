// Package evaluate orchestrates the model comparison: it inspects the
// target column's kind, runs the matching evaluation protocol, and returns
// a labeled metrics table.
//
// Binary categorical targets get stratified k-fold cross-validation over a
// registry of classifiers; numeric targets get a single train/test split
// with an elastic-net mixing sweep. The decision is made once, on the
// target kind tag, at this boundary.
package evaluate

import (
	"github.com/YuminosukeSato/modelcmp/dataset"
	"github.com/YuminosukeSato/modelcmp/pkg/errors"
)

// DefaultAlphaGrid is the elastic-net mixing grid used when none is given.
var DefaultAlphaGrid = []float64{0, 0.2, 0.4, 0.6, 0.8, 1}

// Options control one evaluation call.
type Options struct {
	// K is the fold count for classification cross-validation.
	K int

	// AlphaGrid is the ordered elastic-net mixing grid for regression.
	AlphaGrid []float64

	// Seed fixes every random partition, making the run reproducible.
	Seed int64

	// TrainFraction is the training share of the regression split.
	TrainFraction float64

	// Classifiers is the algorithm registry for classification mode.
	Classifiers []ClassifierSpec
}

// Option mutates Options.
type Option func(*Options)

// WithFolds sets the fold count k.
func WithFolds(k int) Option {
	return func(o *Options) { o.K = k }
}

// WithAlphaGrid sets the elastic-net mixing grid, order preserved.
func WithAlphaGrid(grid []float64) Option {
	return func(o *Options) { o.AlphaGrid = grid }
}

// WithSeed sets the random seed for all partitioning.
func WithSeed(seed int64) Option {
	return func(o *Options) { o.Seed = seed }
}

// WithTrainFraction sets the training share of the regression split.
func WithTrainFraction(frac float64) Option {
	return func(o *Options) { o.TrainFraction = frac }
}

// WithClassifiers replaces the default classifier registry.
func WithClassifiers(specs []ClassifierSpec) Option {
	return func(o *Options) { o.Classifiers = specs }
}

func defaultOptions() Options {
	return Options{
		K:             5,
		AlphaGrid:     DefaultAlphaGrid,
		Seed:          42,
		TrainFraction: 0.7,
	}
}

// Evaluate runs the comparison for the named target column and returns the
// result table. The target name is passed through explicitly; no column is
// ever renamed or mutated.
//
// A fit failure for one algorithm or one alpha value blanks only that
// column (cells become NaN and the error is recorded in the table's
// failures); the rest of the evaluation proceeds. Configuration errors are
// fatal and returned immediately.
func Evaluate(ds *dataset.Dataset, target string, opts ...Option) (*ResultTable, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Classifiers == nil {
		o.Classifiers = DefaultClassifiers()
	}

	kind, err := ds.TargetKind(target)
	if err != nil {
		return nil, err
	}

	n := ds.NumRows()
	for _, alpha := range o.AlphaGrid {
		if alpha < 0 || alpha > 1 {
			return nil, errors.NewValidationError("alpha_grid",
				"every alpha must lie in [0,1]", alpha)
		}
	}
	if len(o.AlphaGrid) == 0 {
		return nil, errors.NewValidationError("alpha_grid", "grid must not be empty", o.AlphaGrid)
	}
	if o.K < 2 || o.K >= n {
		return nil, errors.NewValidationError("k",
			"fold count must satisfy 2 <= k < row count", o.K)
	}

	X, err := ds.DesignMatrix(target)
	if err != nil {
		return nil, err
	}
	y, err := ds.TargetVector(target)
	if err != nil {
		return nil, err
	}

	switch kind {
	case dataset.TargetBinary:
		return evaluateClassification(X, y, o)
	case dataset.TargetContinuous:
		return evaluateRegression(X, y, o)
	default:
		return nil, errors.NewValidationError("target", "unsupported target kind", kind)
	}
}
