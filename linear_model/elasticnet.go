package linear_model

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelcmp/core/model"
	"github.com/YuminosukeSato/modelcmp/partition"
	"github.com/YuminosukeSato/modelcmp/pkg/errors"
	"github.com/YuminosukeSato/modelcmp/preprocessing"
)

// ElasticNet is a linear regression model with a mixed L1/L2 penalty,
// fitted by coordinate descent on internally standardized features.
//
// Alpha in [0,1] is the mixing weight: 0 gives a ridge-like penalty,
// 1 a lasso-like penalty. Lambda is the overall penalty strength.
type ElasticNet struct {
	state *model.StateManager

	// Hyperparameters
	Alpha   float64
	Lambda  float64
	maxIter int
	tol     float64

	// Coefficients on the original (unstandardized) feature scale.
	coef      []float64
	intercept float64
	nFeatures int
}

// ElasticNetOption is a functional option for ElasticNet.
type ElasticNetOption func(*ElasticNet)

// WithENMaxIter sets the maximum number of coordinate-descent sweeps.
func WithENMaxIter(maxIter int) ElasticNetOption {
	return func(en *ElasticNet) { en.maxIter = maxIter }
}

// WithENTol sets the coefficient-change tolerance for the stopping criterion.
func WithENTol(tol float64) ElasticNetOption {
	return func(en *ElasticNet) { en.tol = tol }
}

// NewElasticNet creates an elastic-net model for a fixed (alpha, lambda).
func NewElasticNet(alpha, lambda float64, opts ...ElasticNetOption) *ElasticNet {
	en := &ElasticNet{
		state:   model.NewStateManager(),
		Alpha:   alpha,
		Lambda:  lambda,
		maxIter: 1000,
		tol:     1e-6,
	}
	for _, opt := range opts {
		opt(en)
	}
	return en
}

// Fit runs coordinate descent on standardized features and a centered
// target, then maps the coefficients back to the original scale.
func (en *ElasticNet) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()
	if nSamples != yRows {
		return errors.NewDimensionError("ElasticNet.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("ElasticNet.Fit", "y must be a column vector")
	}
	if en.Alpha < 0 || en.Alpha > 1 {
		return errors.NewValidationError("alpha", "mixing parameter must lie in [0,1]", en.Alpha)
	}
	if en.Lambda < 0 {
		return errors.NewValidationError("lambda", "penalty strength must be non-negative", en.Lambda)
	}

	scaler := preprocessing.NewStandardScaler()
	Xs, err := scaler.FitTransform(X)
	if err != nil {
		return errors.Wrap(err, "ElasticNet.Fit")
	}

	yMean := 0.0
	for i := 0; i < nSamples; i++ {
		yMean += y.At(i, 0)
	}
	yMean /= float64(nSamples)

	yc := make([]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		yc[i] = y.At(i, 0) - yMean
	}

	w := make([]float64, nFeatures)
	coordinateDescent(Xs, yc, w, en.Alpha, en.Lambda, en.maxIter, en.tol)

	// Back to the original feature scale.
	en.nFeatures = nFeatures
	en.coef = make([]float64, nFeatures)
	en.intercept = yMean
	for j := 0; j < nFeatures; j++ {
		en.coef[j] = w[j] / scaler.Scale[j]
		en.intercept -= en.coef[j] * scaler.Mean[j]
	}

	en.state.SetDimensions(nFeatures, nSamples)
	en.state.SetFitted()
	return nil
}

// Predict returns real-valued predictions for the input rows.
func (en *ElasticNet) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !en.state.IsFitted() {
		return nil, errors.NewNotFittedError("ElasticNet", "Predict")
	}
	n, c := X.Dims()
	if c != en.nFeatures {
		return nil, errors.NewDimensionError("ElasticNet.Predict", en.nFeatures, c, 1)
	}

	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		v := en.intercept
		for j := 0; j < en.nFeatures; j++ {
			v += X.At(i, j) * en.coef[j]
		}
		out.Set(i, 0, v)
	}
	return out, nil
}

// Coef returns the fitted coefficients on the original feature scale.
func (en *ElasticNet) Coef() []float64 { return en.coef }

// Intercept returns the fitted intercept.
func (en *ElasticNet) Intercept() float64 { return en.intercept }

// GetParams returns the model's hyperparameters.
func (en *ElasticNet) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"alpha":    en.Alpha,
		"lambda":   en.Lambda,
		"max_iter": en.maxIter,
		"tol":      en.tol,
	}
}

// coordinateDescent minimizes
//
//	(1/2n)·||y - Xw||² + λ·(α·||w||₁ + (1-α)/2·||w||²)
//
// over standardized columns, updating w in place. With unit-variance
// columns each coordinate update has the closed form
// soft(ρ_j, λα) / (1 + λ(1-α)).
func coordinateDescent(X *mat.Dense, y, w []float64, alpha, lambda float64, maxIter int, tol float64) {
	n, p := X.Dims()

	// Residual for the current w (w starts at whatever the caller passed,
	// enabling warm starts along a lambda path).
	r := make([]float64, n)
	for i := 0; i < n; i++ {
		v := y[i]
		for j := 0; j < p; j++ {
			if w[j] != 0 {
				v -= X.At(i, j) * w[j]
			}
		}
		r[i] = v
	}

	l1 := lambda * alpha
	l2 := lambda * (1 - alpha)

	for iter := 0; iter < maxIter; iter++ {
		maxDelta := 0.0
		for j := 0; j < p; j++ {
			old := w[j]

			rho := 0.0
			for i := 0; i < n; i++ {
				rho += X.At(i, j) * (r[i] + X.At(i, j)*old)
			}
			rho /= float64(n)

			w[j] = softThreshold(rho, l1) / (1 + l2)

			if delta := w[j] - old; delta != 0 {
				for i := 0; i < n; i++ {
					r[i] -= X.At(i, j) * delta
				}
				if math.Abs(delta) > maxDelta {
					maxDelta = math.Abs(delta)
				}
			}
		}
		if maxDelta < tol {
			return
		}
	}

	errors.Warn(errors.NewConvergenceWarning("ElasticNet", maxIter))
}

func softThreshold(z, gamma float64) float64 {
	switch {
	case z > gamma:
		return z - gamma
	case z < -gamma:
		return z + gamma
	default:
		return 0
	}
}

// LambdaPath computes a geometric grid of nLambdas penalty strengths from
// the smallest lambda that zeroes every coefficient down to lambdaMax*eps.
// For alpha near zero the usual formula diverges, so the mixing value is
// floored at 0.001 when sizing the path, as glmnet does.
func LambdaPath(X, y mat.Matrix, alpha float64, nLambdas int, eps float64) ([]float64, error) {
	nSamples, nFeatures := X.Dims()
	if nSamples == 0 || nFeatures == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "LambdaPath")
	}

	scaler := preprocessing.NewStandardScaler()
	Xs, err := scaler.FitTransform(X)
	if err != nil {
		return nil, errors.Wrap(err, "LambdaPath")
	}

	yMean := 0.0
	for i := 0; i < nSamples; i++ {
		yMean += y.At(i, 0)
	}
	yMean /= float64(nSamples)

	maxCov := 0.0
	for j := 0; j < nFeatures; j++ {
		cov := 0.0
		for i := 0; i < nSamples; i++ {
			cov += Xs.At(i, j) * (y.At(i, 0) - yMean)
		}
		cov = math.Abs(cov) / float64(nSamples)
		if cov > maxCov {
			maxCov = cov
		}
	}
	if maxCov == 0 {
		maxCov = 1
	}

	alphaFloor := alpha
	if alphaFloor < 0.001 {
		alphaFloor = 0.001
	}
	lambdaMax := maxCov / alphaFloor
	lambdaMin := lambdaMax * eps

	path := make([]float64, nLambdas)
	if nLambdas == 1 {
		path[0] = lambdaMax
		return path, nil
	}
	logStep := (math.Log(lambdaMax) - math.Log(lambdaMin)) / float64(nLambdas-1)
	for i := 0; i < nLambdas; i++ {
		path[i] = math.Exp(math.Log(lambdaMax) - float64(i)*logStep)
	}
	return path, nil
}

// ElasticNetCV selects the penalty strength for a fixed mixing value by
// k-fold cross-validation over a lambda path, then refits on the full data
// with the winning lambda. Only the data passed to Fit is ever used, so
// running it on a training split cannot leak test rows.
type ElasticNetCV struct {
	state *model.StateManager

	Alpha   float64
	NFolds  int
	Seed    int64
	Lambdas []float64 // optional; computed from the data when nil

	// Populated by Fit.
	LambdaBest float64
	CVErrors   []float64 // mean CV MSE per path entry
	model      *ElasticNet

	nLambdas int
	pathEps  float64
}

// NewElasticNetCV creates a cross-validated elastic net for one alpha.
func NewElasticNetCV(alpha float64, nFolds int, seed int64) *ElasticNetCV {
	return &ElasticNetCV{
		state:    model.NewStateManager(),
		Alpha:    alpha,
		NFolds:   nFolds,
		Seed:     seed,
		nLambdas: 50,
		pathEps:  1e-3,
	}
}

// Fit runs the inner cross-validation over the lambda path and refits on
// the full input with the selected lambda.
func (cv *ElasticNetCV) Fit(X, y mat.Matrix) error {
	nSamples, _ := X.Dims()

	path := cv.Lambdas
	if path == nil {
		var err error
		path, err = LambdaPath(X, y, cv.Alpha, cv.nLambdas, cv.pathEps)
		if err != nil {
			return err
		}
	}

	folds, err := partition.NewKFold(cv.NFolds, cv.Seed).Split(nSamples)
	if err != nil {
		return errors.Wrap(err, "ElasticNetCV.Fit")
	}

	cvErrors := make([]float64, len(path))
	counts := make([]int, len(path))

	for _, fold := range folds {
		trainX, trainY := subset(X, y, fold.TrainIndices)
		testX, testY := subset(X, y, fold.TestIndices)

		// Warm start along the path, largest lambda first.
		nTrain, p := trainX.Dims()
		scaler := preprocessing.NewStandardScaler()
		Xs, err := scaler.FitTransform(trainX)
		if err != nil {
			return errors.Wrap(err, "ElasticNetCV.Fit")
		}
		yMean := 0.0
		for i := 0; i < nTrain; i++ {
			yMean += trainY.At(i, 0)
		}
		yMean /= float64(nTrain)
		yc := make([]float64, nTrain)
		for i := 0; i < nTrain; i++ {
			yc[i] = trainY.At(i, 0) - yMean
		}

		w := make([]float64, p)
		for li, lambda := range path {
			coordinateDescent(Xs, yc, w, cv.Alpha, lambda, 1000, 1e-6)

			// Validation MSE on the held-out fold, on the original scale.
			nTest, _ := testX.Dims()
			sse := 0.0
			for i := 0; i < nTest; i++ {
				pred := yMean
				for j := 0; j < p; j++ {
					pred += w[j] * (testX.At(i, j) - scaler.Mean[j]) / scaler.Scale[j]
				}
				diff := pred - testY.At(i, 0)
				sse += diff * diff
			}
			cvErrors[li] += sse / float64(nTest)
			counts[li]++
		}
	}

	best := 0
	for li := range cvErrors {
		cvErrors[li] /= float64(counts[li])
		if cvErrors[li] < cvErrors[best] {
			best = li
		}
	}

	cv.CVErrors = cvErrors
	cv.LambdaBest = path[best]
	cv.model = NewElasticNet(cv.Alpha, cv.LambdaBest)
	if err := cv.model.Fit(X, y); err != nil {
		return err
	}

	cv.state.SetFitted()
	return nil
}

// Predict delegates to the refitted model.
func (cv *ElasticNetCV) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !cv.state.IsFitted() {
		return nil, errors.NewNotFittedError("ElasticNetCV", "Predict")
	}
	return cv.model.Predict(X)
}

// subset copies the given rows of X and y into fresh matrices.
func subset(X, y mat.Matrix, indices []int) (*mat.Dense, *mat.Dense) {
	_, cols := X.Dims()
	outX := mat.NewDense(len(indices), cols, nil)
	outY := mat.NewDense(len(indices), 1, nil)
	for i, idx := range indices {
		for j := 0; j < cols; j++ {
			outX.Set(i, j, X.At(idx, j))
		}
		outY.Set(i, 0, y.At(idx, 0))
	}
	return outX, outY
}
