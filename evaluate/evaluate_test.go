package evaluate

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelcmp/core/model"
	"github.com/YuminosukeSato/modelcmp/dataset"
	"github.com/YuminosukeSato/modelcmp/pkg/errors"
)

// binaryDataset builds n rows with two informative numeric features and a
// balanced yes/no target, separable enough for every default classifier.
func binaryDataset(t *testing.T, n int, seed uint64) *dataset.Dataset {
	t.Helper()
	r := rand.New(rand.NewPCG(seed, seed))

	x1 := make([]float64, n)
	x2 := make([]float64, n)
	labels := make([]string, n)
	for i := 0; i < n; i++ {
		center := -2.0
		labels[i] = "no"
		if i%2 == 1 {
			center = 2.0
			labels[i] = "yes"
		}
		x1[i] = center + 0.6*r.NormFloat64()
		x2[i] = center + 0.6*r.NormFloat64()
	}

	ds := dataset.New(n)
	require.NoError(t, ds.AddNumeric("x1", x1))
	require.NoError(t, ds.AddNumeric("x2", x2))
	require.NoError(t, ds.AddCategorical("outcome", labels))
	return ds
}

// continuousDataset builds n rows with y = 3*x1 - 2*x2 + noise.
func continuousDataset(t *testing.T, n int, seed uint64) *dataset.Dataset {
	t.Helper()
	r := rand.New(rand.NewPCG(seed, seed))

	x1 := make([]float64, n)
	x2 := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x1[i] = r.NormFloat64()
		x2[i] = r.NormFloat64()
		y[i] = 3*x1[i] - 2*x2[i] + 0.5*r.NormFloat64()
	}

	ds := dataset.New(n)
	require.NoError(t, ds.AddNumeric("x1", x1))
	require.NoError(t, ds.AddNumeric("x2", x2))
	require.NoError(t, ds.AddNumeric("y", y))
	return ds
}

func TestEvaluateClassification(t *testing.T) {
	ds := binaryDataset(t, 100, 1)

	table, err := Evaluate(ds, "outcome", WithFolds(5), WithSeed(42))
	require.NoError(t, err)

	assert.Equal(t, []string{"logistic", "lda", "qda", "knn"}, table.Columns())
	assert.Equal(t, []string{RowAccuracy, RowMiscRate, RowFScore}, table.Rows())
	assert.Empty(t, table.Failures())

	for _, col := range table.Columns() {
		acc, ok := table.Value(RowAccuracy, col)
		require.True(t, ok)
		assert.GreaterOrEqual(t, acc, 0.0, "accuracy for %s", col)
		assert.LessOrEqual(t, acc, 1.0, "accuracy for %s", col)
		assert.Greater(t, acc, 0.9, "separable blobs should classify well: %s", col)

		misc, ok := table.Value(RowMiscRate, col)
		require.True(t, ok)
		assert.InDelta(t, 1-acc, misc, 1e-15, "misc rate must complement accuracy: %s", col)

		f, ok := table.Value(RowFScore, col)
		require.True(t, ok)
		assert.False(t, math.IsNaN(f), "F-score defined on balanced data: %s", col)
	}
}

func TestEvaluateRegression(t *testing.T) {
	ds := continuousDataset(t, 200, 2)

	table, err := Evaluate(ds, "y", WithAlphaGrid([]float64{0, 1}), WithSeed(42))
	require.NoError(t, err)

	assert.Equal(t, []string{"0", "1"}, table.Columns())
	assert.Equal(t, []string{RowRMSE, RowR2}, table.Rows())
	assert.Empty(t, table.Failures())

	for _, col := range table.Columns() {
		rmse, ok := table.Value(RowRMSE, col)
		require.True(t, ok)
		assert.False(t, math.IsNaN(rmse))
		assert.GreaterOrEqual(t, rmse, 0.0)

		r2, ok := table.Value(RowR2, col)
		require.True(t, ok)
		assert.Greater(t, r2, 0.8, "strong linear signal should fit well at alpha %s", col)
	}
}

func TestEvaluateDefaultAlphaGrid(t *testing.T) {
	ds := continuousDataset(t, 120, 3)

	table, err := Evaluate(ds, "y")
	require.NoError(t, err)

	assert.Equal(t, []string{"0", "0.2", "0.4", "0.6", "0.8", "1"}, table.Columns())
}

func TestEvaluateDeterministic(t *testing.T) {
	ds := binaryDataset(t, 80, 4)

	a, err := Evaluate(ds, "outcome", WithSeed(7))
	require.NoError(t, err)
	b, err := Evaluate(ds, "outcome", WithSeed(7))
	require.NoError(t, err)

	for _, row := range a.Rows() {
		for _, col := range a.Columns() {
			va, _ := a.Value(row, col)
			vb, _ := b.Value(row, col)
			assert.Equal(t, va, vb, "cell (%s, %s)", row, col)
		}
	}
}

func TestEvaluateConfigurationErrors(t *testing.T) {
	ds := binaryDataset(t, 20, 5)

	_, err := Evaluate(ds, "missing")
	assert.Error(t, err)

	_, err = Evaluate(ds, "outcome", WithFolds(1))
	assert.Error(t, err, "k below 2 is invalid")

	_, err = Evaluate(ds, "outcome", WithFolds(20))
	assert.Error(t, err, "k equal to row count is invalid")

	_, err = Evaluate(ds, "outcome", WithFolds(19))
	assert.NoError(t, err, "k one below row count is the largest valid k")

	_, err = Evaluate(ds, "outcome", WithAlphaGrid([]float64{0.5, 1.5}))
	assert.Error(t, err, "alpha above 1 is invalid")

	_, err = Evaluate(ds, "outcome", WithAlphaGrid(nil))
	assert.Error(t, err, "empty alpha grid is invalid")
}

func TestEvaluateMultiLevelTargetRejected(t *testing.T) {
	ds := dataset.New(6)
	require.NoError(t, ds.AddNumeric("x", []float64{1, 2, 3, 4, 5, 6}))
	require.NoError(t, ds.AddCategorical("y", []string{"a", "b", "c", "a", "b", "c"}))

	_, err := Evaluate(ds, "y")
	require.Error(t, err)

	var verr *errors.ValidationError
	assert.True(t, errors.As(err, &verr))
}

type brokenClassifier struct{}

func (brokenClassifier) Fit(X, y mat.Matrix) error { return errors.New("deliberate fit failure") }
func (brokenClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	return nil, errors.New("unreachable")
}

func TestEvaluateIsolatesColumnFailure(t *testing.T) {
	ds := binaryDataset(t, 60, 6)

	specs := append(DefaultClassifiers(), ClassifierSpec{
		Name: "broken",
		New:  func(seed int64) model.Classifier { return brokenClassifier{} },
	})

	table, err := Evaluate(ds, "outcome", WithClassifiers(specs))
	require.NoError(t, err, "one column's failure must not abort the run")

	require.Error(t, table.Failure("broken"))
	var ferr *errors.FitError
	assert.True(t, errors.As(table.Failure("broken"), &ferr))

	v, ok := table.Value(RowAccuracy, "broken")
	require.True(t, ok)
	assert.True(t, math.IsNaN(v), "failed column's cells stay NaN")

	acc, ok := table.Value(RowAccuracy, "logistic")
	require.True(t, ok)
	assert.False(t, math.IsNaN(acc), "healthy columns keep their values")
}

func TestResultTableString(t *testing.T) {
	ds := binaryDataset(t, 40, 7)

	table, err := Evaluate(ds, "outcome")
	require.NoError(t, err)

	out := table.String()
	for _, col := range table.Columns() {
		assert.Contains(t, out, col)
	}
	for _, row := range table.Rows() {
		assert.Contains(t, out, row)
	}
}
