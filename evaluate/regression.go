package evaluate

import (
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelcmp/core/parallel"
	"github.com/YuminosukeSato/modelcmp/linear_model"
	"github.com/YuminosukeSato/modelcmp/metrics"
	"github.com/YuminosukeSato/modelcmp/partition"
	"github.com/YuminosukeSato/modelcmp/pkg/errors"
)

// Metric row labels for regression tables.
const (
	RowRMSE = "RMSE"
	RowR2   = "R2"
)

// innerCVFolds is the fold count for the lambda search on the training set,
// capped below the training-set size for tiny inputs.
const innerCVFolds = 10

// evaluateRegression draws one train/test split and, for every alpha in the
// grid, selects the penalty strength by inner cross-validation on the
// training rows only, refits, and scores the held-out test rows. The split
// is reused across the whole grid so the alpha results stay comparable.
func evaluateRegression(X *mat.Dense, y *mat.VecDense, o Options) (*ResultTable, error) {
	n := y.Len()

	split, err := partition.TrainTestSplit(n, o.TrainFraction, o.Seed)
	if err != nil {
		return nil, err
	}

	trainX, trainY := subsetRows(X, y, split.TrainIndices)
	testX, testY := subsetRows(X, y, split.TestIndices)

	nTest := len(split.TestIndices)
	observed := mat.NewVecDense(nTest, nil)
	for i := 0; i < nTest; i++ {
		observed.SetVec(i, testY.At(i, 0))
	}

	// Columns are the stringified grid values, order preserved.
	columns := make([]string, len(o.AlphaGrid))
	for i, alpha := range o.AlphaGrid {
		columns[i] = strconv.FormatFloat(alpha, 'g', -1, 64)
	}
	table := newResultTable([]string{RowRMSE, RowR2}, columns)

	nFolds := innerCVFolds
	if nTrain := len(split.TrainIndices); nFolds >= nTrain {
		nFolds = nTrain - 1
	}

	cells := make([]alphaCell, len(o.AlphaGrid))

	// Alpha values are independent given the fixed split; fan out and
	// aggregate by grid index so output order matches input order.
	parallel.ParallelizeWithThreshold(len(o.AlphaGrid), 1, func(start, end int) {
		for ai := start; ai < end; ai++ {
			cells[ai] = evaluateAlpha(o.AlphaGrid[ai], columns[ai], nFolds, o.Seed,
				trainX, trainY, testX, observed)
		}
	})

	for ai := range cells {
		if cells[ai].err != nil {
			table.setFailure(columns[ai], cells[ai].err)
			continue
		}
		table.setColumn(columns[ai], []float64{cells[ai].rmse, cells[ai].r2})
	}
	return table, nil
}

type alphaCell struct {
	rmse, r2 float64
	err      error
}

func evaluateAlpha(alpha float64, label string, nFolds int, seed int64,
	trainX, trainY, testX *mat.Dense, observed *mat.VecDense) (c alphaCell) {

	err := errors.SafeExecute(label, func() error {
		cv := linear_model.NewElasticNetCV(alpha, nFolds, seed)
		if err := cv.Fit(trainX, trainY); err != nil {
			return err
		}
		preds, err := cv.Predict(testX)
		if err != nil {
			return err
		}

		nTest := observed.Len()
		predVec := mat.NewVecDense(nTest, nil)
		for i := 0; i < nTest; i++ {
			predVec.SetVec(i, preds.At(i, 0))
		}

		rmse, err := metrics.RMSE(observed, predVec)
		if err != nil {
			return err
		}
		r2, err := metrics.R2Score(observed, predVec)
		if err != nil {
			return err
		}
		c.rmse, c.r2 = rmse, r2
		return nil
	})
	if err != nil {
		c.err = errors.NewFitError(label, -1, err)
	}
	return c
}
