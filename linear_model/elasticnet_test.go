package linear_model

import (
	"math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// sparseLinear builds y = 3*x1 - 2*x2 + noise with an irrelevant x3.
func sparseLinear(n int, noise float64, seed uint64) (*mat.Dense, *mat.Dense) {
	r := rand.New(rand.NewPCG(seed, seed))
	X := mat.NewDense(n, 3, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		x1 := r.NormFloat64()
		x2 := r.NormFloat64()
		x3 := r.NormFloat64()
		X.Set(i, 0, x1)
		X.Set(i, 1, x2)
		X.Set(i, 2, x3)
		y.Set(i, 0, 3*x1-2*x2+noise*r.NormFloat64())
	}
	return X, y
}

func TestElasticNetRecoversCoefficients(t *testing.T) {
	X, y := sparseLinear(200, 0.01, 1)

	en := NewElasticNet(0.5, 0.001)
	if err := en.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	coef := en.Coef()
	if math.Abs(coef[0]-3) > 0.2 {
		t.Errorf("coef[0] = %v, want ~3", coef[0])
	}
	if math.Abs(coef[1]+2) > 0.2 {
		t.Errorf("coef[1] = %v, want ~-2", coef[1])
	}
	if math.Abs(coef[2]) > 0.2 {
		t.Errorf("coef[2] = %v, want ~0", coef[2])
	}
}

func TestElasticNetHeavyPenaltyShrinksToMean(t *testing.T) {
	X, y := sparseLinear(100, 0.1, 2)

	// A lambda at the top of the path zeroes every coefficient, so the
	// prediction collapses to the training mean.
	path, err := LambdaPath(X, y, 1, 10, 1e-3)
	if err != nil {
		t.Fatal(err)
	}
	en := NewElasticNet(1, path[0])
	if err := en.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	for j, c := range en.Coef() {
		if math.Abs(c) > 1e-9 {
			t.Errorf("coef[%d] = %v, want 0 at lambda_max", j, c)
		}
	}
}

func TestElasticNetValidation(t *testing.T) {
	X, y := sparseLinear(10, 0.1, 3)

	if err := NewElasticNet(-0.1, 1).Fit(X, y); err == nil {
		t.Error("alpha below 0 should error")
	}
	if err := NewElasticNet(1.1, 1).Fit(X, y); err == nil {
		t.Error("alpha above 1 should error")
	}
	if err := NewElasticNet(0.5, -1).Fit(X, y); err == nil {
		t.Error("negative lambda should error")
	}
	if _, err := NewElasticNet(0.5, 1).Predict(X); err == nil {
		t.Error("Predict before Fit should error")
	}
}

func TestLambdaPath(t *testing.T) {
	X, y := sparseLinear(100, 0.1, 4)

	path, err := LambdaPath(X, y, 0.5, 50, 1e-3)
	if err != nil {
		t.Fatalf("LambdaPath() error = %v", err)
	}
	if len(path) != 50 {
		t.Fatalf("path length = %d, want 50", len(path))
	}
	for i := 1; i < len(path); i++ {
		if path[i] >= path[i-1] {
			t.Fatalf("path not strictly decreasing at %d: %v >= %v", i, path[i], path[i-1])
		}
	}
	if ratio := path[len(path)-1] / path[0]; math.Abs(ratio-1e-3) > 1e-6 {
		t.Errorf("path min/max ratio = %v, want 1e-3", ratio)
	}
}

func TestLambdaPathRidgeAlphaFloor(t *testing.T) {
	X, y := sparseLinear(50, 0.1, 5)

	// alpha = 0 must not divide by zero when sizing the path.
	path, err := LambdaPath(X, y, 0, 10, 1e-3)
	if err != nil {
		t.Fatalf("LambdaPath() error = %v", err)
	}
	for _, l := range path {
		if math.IsInf(l, 0) || math.IsNaN(l) || l <= 0 {
			t.Fatalf("invalid lambda %v for alpha=0", l)
		}
	}
}

func TestElasticNetCV(t *testing.T) {
	X, y := sparseLinear(150, 0.5, 6)

	cv := NewElasticNetCV(0.5, 5, 42)
	if err := cv.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	if cv.LambdaBest <= 0 {
		t.Errorf("LambdaBest = %v, want > 0", cv.LambdaBest)
	}
	if len(cv.CVErrors) == 0 {
		t.Fatal("CVErrors empty after Fit")
	}
	for _, e := range cv.CVErrors {
		if e < 0 || math.IsNaN(e) {
			t.Fatalf("invalid CV error %v", e)
		}
	}

	preds, err := cv.Predict(X)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	// In-sample fit should beat predicting the mean by a wide margin.
	n, _ := preds.Dims()
	var rss, tss, mean float64
	for i := 0; i < n; i++ {
		mean += y.At(i, 0)
	}
	mean /= float64(n)
	for i := 0; i < n; i++ {
		rss += (y.At(i, 0) - preds.At(i, 0)) * (y.At(i, 0) - preds.At(i, 0))
		tss += (y.At(i, 0) - mean) * (y.At(i, 0) - mean)
	}
	if r2 := 1 - rss/tss; r2 < 0.8 {
		t.Errorf("in-sample R² = %v, want >= 0.8", r2)
	}
}

func TestElasticNetCVDeterministic(t *testing.T) {
	X, y := sparseLinear(80, 0.5, 7)

	a := NewElasticNetCV(0.2, 5, 13)
	if err := a.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	b := NewElasticNetCV(0.2, 5, 13)
	if err := b.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	if a.LambdaBest != b.LambdaBest {
		t.Errorf("same seed selected different lambdas: %v vs %v", a.LambdaBest, b.LambdaBest)
	}
}
