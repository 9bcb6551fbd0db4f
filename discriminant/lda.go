// Package discriminant implements Gaussian discriminant classifiers for
// binary targets: LDA with a pooled covariance estimate and QDA with a
// per-class estimate. Labels are encoded 0/1 and the fitted models predict
// the class with the larger discriminant score.
package discriminant

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelcmp/core/model"
	"github.com/YuminosukeSato/modelcmp/pkg/errors"
)

// LDA is linear discriminant analysis: both classes share one pooled
// covariance matrix, giving a linear decision boundary.
type LDA struct {
	state *model.StateManager

	priors    [2]float64
	means     [2][]float64
	pooled    mat.Cholesky
	nFeatures int
}

// NewLDA creates a new linear discriminant classifier.
func NewLDA() *LDA {
	return &LDA{state: model.NewStateManager()}
}

// Fit estimates class priors, means and the pooled covariance.
func (l *LDA) Fit(X, y mat.Matrix) error {
	groups, nFeatures, err := splitClasses(X, y, "LDA.Fit")
	if err != nil {
		return err
	}
	nSamples := len(groups[0]) + len(groups[1])

	for c := 0; c < 2; c++ {
		l.priors[c] = float64(len(groups[c])) / float64(nSamples)
		l.means[c] = classMean(groups[c], nFeatures)
	}

	// Pooled covariance with the usual n-2 denominator.
	cov := mat.NewSymDense(nFeatures, nil)
	for c := 0; c < 2; c++ {
		accumulateScatter(cov, groups[c], l.means[c])
	}
	scaleSym(cov, 1/float64(nSamples-2))

	if ok := l.pooled.Factorize(cov); !ok {
		return errors.Wrap(errors.ErrSingularMatrix, "LDA.Fit: pooled covariance")
	}

	l.nFeatures = nFeatures
	l.state.SetDimensions(nFeatures, nSamples)
	l.state.SetFitted()
	return nil
}

// Predict returns 0/1 labels for the input rows.
func (l *LDA) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !l.state.IsFitted() {
		return nil, errors.NewNotFittedError("LDA", "Predict")
	}
	n, c := X.Dims()
	if c != l.nFeatures {
		return nil, errors.NewDimensionError("LDA.Predict", l.nFeatures, c, 1)
	}

	// Precompute Σ⁻¹μ_c and the constant term per class.
	var weights [2]*mat.VecDense
	var consts [2]float64
	for cls := 0; cls < 2; cls++ {
		mu := mat.NewVecDense(l.nFeatures, l.means[cls])
		w := mat.NewVecDense(l.nFeatures, nil)
		if err := l.pooled.SolveVecTo(w, mu); err != nil {
			return nil, errors.Wrap(err, "LDA.Predict")
		}
		weights[cls] = w
		consts[cls] = -0.5*mat.Dot(mu, w) + math.Log(l.priors[cls])
	}

	out := mat.NewDense(n, 1, nil)
	x := mat.NewVecDense(l.nFeatures, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < l.nFeatures; j++ {
			x.SetVec(j, X.At(i, j))
		}
		score0 := mat.Dot(x, weights[0]) + consts[0]
		score1 := mat.Dot(x, weights[1]) + consts[1]
		if score1 > score0 {
			out.Set(i, 0, 1)
		}
	}
	return out, nil
}

// splitClasses partitions rows by 0/1 label. Both classes must be present
// with at least two rows each so a covariance can be estimated.
func splitClasses(X, y mat.Matrix, op string) (groups [2][][]float64, nFeatures int, err error) {
	nSamples, p := X.Dims()
	yRows, yCols := y.Dims()
	if nSamples != yRows {
		return groups, 0, errors.NewDimensionError(op, nSamples, yRows, 0)
	}
	if yCols != 1 {
		return groups, 0, errors.NewValueError(op, "y must be a column vector")
	}

	for i := 0; i < nSamples; i++ {
		label := y.At(i, 0)
		if label != 0 && label != 1 {
			return groups, 0, errors.NewValueError(op, "labels must be encoded 0/1")
		}
		row := make([]float64, p)
		for j := 0; j < p; j++ {
			row[j] = X.At(i, j)
		}
		groups[int(label)] = append(groups[int(label)], row)
	}

	for c := 0; c < 2; c++ {
		if len(groups[c]) < 2 {
			return groups, 0, errors.NewValueError(op, "each class needs at least two training rows")
		}
	}
	return groups, p, nil
}

func classMean(rows [][]float64, p int) []float64 {
	mean := make([]float64, p)
	for _, row := range rows {
		for j := 0; j < p; j++ {
			mean[j] += row[j]
		}
	}
	for j := 0; j < p; j++ {
		mean[j] /= float64(len(rows))
	}
	return mean
}

// accumulateScatter adds Σ(x-μ)(x-μ)' for the given rows into cov.
func accumulateScatter(cov *mat.SymDense, rows [][]float64, mean []float64) {
	p := len(mean)
	diff := make([]float64, p)
	for _, row := range rows {
		for j := 0; j < p; j++ {
			diff[j] = row[j] - mean[j]
		}
		for j := 0; j < p; j++ {
			for k := j; k < p; k++ {
				cov.SetSym(j, k, cov.At(j, k)+diff[j]*diff[k])
			}
		}
	}
}

func scaleSym(cov *mat.SymDense, s float64) {
	p := cov.SymmetricDim()
	for j := 0; j < p; j++ {
		for k := j; k < p; k++ {
			cov.SetSym(j, k, cov.At(j, k)*s)
		}
	}
}
