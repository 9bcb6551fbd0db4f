package evaluate

import (
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelcmp/core/model"
	"github.com/YuminosukeSato/modelcmp/discriminant"
	"github.com/YuminosukeSato/modelcmp/linear_model"
	"github.com/YuminosukeSato/modelcmp/metrics"
	"github.com/YuminosukeSato/modelcmp/neighbors"
	"github.com/YuminosukeSato/modelcmp/partition"
	"github.com/YuminosukeSato/modelcmp/pkg/errors"
)

// ClassifierSpec is one entry of the algorithm registry: a column name and
// a constructor returning a fresh fit/predict capability. New algorithms
// are added here without touching the evaluator's control flow.
type ClassifierSpec struct {
	Name string
	New  func(seed int64) model.Classifier
}

// DefaultClassifiers returns the standard battery: logistic regression,
// linear and quadratic discriminant analysis, and k-nearest-neighbors with
// cross-validated neighbor selection.
func DefaultClassifiers() []ClassifierSpec {
	return []ClassifierSpec{
		{Name: "logistic", New: func(seed int64) model.Classifier {
			return linear_model.NewLogisticRegression()
		}},
		{Name: "lda", New: func(seed int64) model.Classifier {
			return discriminant.NewLDA()
		}},
		{Name: "qda", New: func(seed int64) model.Classifier {
			return discriminant.NewQDA()
		}},
		{Name: "knn", New: func(seed int64) model.Classifier {
			return neighbors.NewKNN(0, seed)
		}},
	}
}

// Metric row labels for classification tables.
const (
	RowAccuracy = "accuracy"
	RowMiscRate = "misc rate"
	RowFScore   = "F-score"
)

// evaluateClassification runs stratified k-fold cross-validation for each
// registered classifier over one shared fold assignment, aggregates the
// out-of-fold predictions, and derives confusion-matrix metrics.
func evaluateClassification(X *mat.Dense, y *mat.VecDense, o Options) (*ResultTable, error) {
	n := y.Len()
	labels := make([]float64, n)
	for i := 0; i < n; i++ {
		labels[i] = y.AtVec(i)
	}

	// One fold assignment shared by every algorithm keeps the comparison
	// fair: each model sees exactly the same training/validation rows.
	folds, err := partition.NewStratifiedKFold(o.K, o.Seed).Split(labels)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(o.Classifiers))
	for i, spec := range o.Classifiers {
		names[i] = spec.Name
	}
	table := newResultTable([]string{RowAccuracy, RowMiscRate, RowFScore}, names)

	for _, spec := range o.Classifiers {
		predicted, err := outOfFoldPredictions(X, y, folds, spec, o.Seed)
		if err != nil {
			// One algorithm's failure blanks only its column.
			table.setFailure(spec.Name, err)
			continue
		}

		cm, err := metrics.NewConfusionMatrix(labels, predicted)
		if err != nil {
			table.setFailure(spec.Name, errors.NewFitError(spec.Name, -1, err))
			continue
		}
		m := cm.Metrics()
		table.setColumn(spec.Name, []float64{m.Accuracy, m.MisclassificationRate, m.FScore})
	}

	return table, nil
}

// outOfFoldPredictions fits the classifier once per fold and collects the
// held-out predictions, so every row is predicted exactly once by a model
// that never saw it during fitting. Folds run concurrently; the prediction
// slots are disjoint per fold, and aggregation happens after the barrier.
func outOfFoldPredictions(X *mat.Dense, y *mat.VecDense, folds []partition.Fold,
	spec ClassifierSpec, seed int64) ([]float64, error) {

	n := y.Len()
	predicted := make([]float64, n)
	foldErrs := make([]error, len(folds))

	var wg sync.WaitGroup
	for foldIdx := range folds {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			foldErrs[idx] = errors.SafeExecute(spec.Name, func() error {
				fold := folds[idx]
				trainX, trainY := subsetRows(X, y, fold.TrainIndices)
				testX, _ := subsetRows(X, y, fold.TestIndices)

				clf := spec.New(seed)
				if err := clf.Fit(trainX, trainY); err != nil {
					return err
				}
				preds, err := clf.Predict(testX)
				if err != nil {
					return err
				}
				for i, rowIdx := range fold.TestIndices {
					predicted[rowIdx] = preds.At(i, 0)
				}
				return nil
			})
		}(foldIdx)
	}
	wg.Wait()

	for foldIdx, err := range foldErrs {
		if err != nil {
			return nil, errors.NewFitError(spec.Name, foldIdx, err)
		}
	}
	return predicted, nil
}

// subsetRows copies the given rows of X and y into fresh matrices so each
// fold's worker owns its training data.
func subsetRows(X *mat.Dense, y *mat.VecDense, indices []int) (*mat.Dense, *mat.Dense) {
	_, cols := X.Dims()
	outX := mat.NewDense(len(indices), cols, nil)
	outY := mat.NewDense(len(indices), 1, nil)
	for i, idx := range indices {
		for j := 0; j < cols; j++ {
			outX.Set(i, j, X.At(idx, j))
		}
		outY.Set(i, 0, y.AtVec(idx))
	}
	return outX, outY
}
