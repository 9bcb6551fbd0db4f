package discriminant

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelcmp/core/model"
	"github.com/YuminosukeSato/modelcmp/pkg/errors"
)

// QDA is quadratic discriminant analysis: each class gets its own
// covariance estimate, giving a quadratic decision boundary.
type QDA struct {
	state *model.StateManager

	priors    [2]float64
	means     [2][]float64
	chols     [2]mat.Cholesky
	logDets   [2]float64
	nFeatures int
}

// NewQDA creates a new quadratic discriminant classifier.
func NewQDA() *QDA {
	return &QDA{state: model.NewStateManager()}
}

// Fit estimates class priors, means and per-class covariances.
func (q *QDA) Fit(X, y mat.Matrix) error {
	groups, nFeatures, err := splitClasses(X, y, "QDA.Fit")
	if err != nil {
		return err
	}
	nSamples := len(groups[0]) + len(groups[1])

	for c := 0; c < 2; c++ {
		nc := len(groups[c])
		if nc <= nFeatures {
			return errors.NewValueError("QDA.Fit",
				"a class has too few rows for a per-class covariance estimate")
		}

		q.priors[c] = float64(nc) / float64(nSamples)
		q.means[c] = classMean(groups[c], nFeatures)

		cov := mat.NewSymDense(nFeatures, nil)
		accumulateScatter(cov, groups[c], q.means[c])
		scaleSym(cov, 1/float64(nc-1))

		if ok := q.chols[c].Factorize(cov); !ok {
			return errors.Wrap(errors.ErrSingularMatrix, "QDA.Fit: class covariance")
		}
		q.logDets[c] = q.chols[c].LogDet()
	}

	q.nFeatures = nFeatures
	q.state.SetDimensions(nFeatures, nSamples)
	q.state.SetFitted()
	return nil
}

// Predict returns 0/1 labels for the input rows.
func (q *QDA) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !q.state.IsFitted() {
		return nil, errors.NewNotFittedError("QDA", "Predict")
	}
	n, c := X.Dims()
	if c != q.nFeatures {
		return nil, errors.NewDimensionError("QDA.Predict", q.nFeatures, c, 1)
	}

	out := mat.NewDense(n, 1, nil)
	diff := mat.NewVecDense(q.nFeatures, nil)
	solved := mat.NewVecDense(q.nFeatures, nil)

	for i := 0; i < n; i++ {
		var scores [2]float64
		for cls := 0; cls < 2; cls++ {
			for j := 0; j < q.nFeatures; j++ {
				diff.SetVec(j, X.At(i, j)-q.means[cls][j])
			}
			if err := q.chols[cls].SolveVecTo(solved, diff); err != nil {
				return nil, errors.Wrap(err, "QDA.Predict")
			}
			maha := mat.Dot(diff, solved)
			scores[cls] = -0.5*q.logDets[cls] - 0.5*maha + math.Log(q.priors[cls])
		}
		if scores[1] > scores[0] {
			out.Set(i, 0, 1)
		}
	}
	return out, nil
}
