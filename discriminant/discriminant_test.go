package discriminant

import (
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// gaussianBlobs draws two Gaussian classes with the given centers and
// per-class standard deviations.
func gaussianBlobs(n int, c0, c1, sd0, sd1 float64, seed uint64) (*mat.Dense, *mat.Dense) {
	r := rand.New(rand.NewPCG(seed, seed))
	X := mat.NewDense(n, 2, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		center, sd := c0, sd0
		if i%2 == 1 {
			center, sd = c1, sd1
			y.Set(i, 0, 1)
		}
		X.Set(i, 0, center+sd*r.NormFloat64())
		X.Set(i, 1, center+sd*r.NormFloat64())
	}
	return X, y
}

func accuracy(preds mat.Matrix, y *mat.Dense) float64 {
	n, _ := y.Dims()
	correct := 0
	for i := 0; i < n; i++ {
		if preds.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(n)
}

func TestLDASeparable(t *testing.T) {
	X, y := gaussianBlobs(200, -2, 2, 0.7, 0.7, 1)

	lda := NewLDA()
	if err := lda.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	preds, err := lda.Predict(X)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if acc := accuracy(preds, y); acc < 0.95 {
		t.Errorf("LDA accuracy = %v, want >= 0.95 on separable blobs", acc)
	}
}

func TestQDASeparable(t *testing.T) {
	// Different per-class spreads favor the quadratic boundary.
	X, y := gaussianBlobs(200, -2, 2, 0.5, 1.5, 2)

	qda := NewQDA()
	if err := qda.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	preds, err := qda.Predict(X)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if acc := accuracy(preds, y); acc < 0.9 {
		t.Errorf("QDA accuracy = %v, want >= 0.9", acc)
	}
}

func TestDiscriminantValidation(t *testing.T) {
	lda := NewLDA()
	if _, err := lda.Predict(mat.NewDense(1, 2, nil)); err == nil {
		t.Error("Predict before Fit should error")
	}

	// A class with a single row cannot support a covariance estimate.
	X := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})
	y := mat.NewDense(3, 1, []float64{0, 0, 1})
	if err := lda.Fit(X, y); err == nil {
		t.Error("one-row class should error")
	}

	badY := mat.NewDense(3, 1, []float64{0, 1, 2})
	if err := NewQDA().Fit(X, badY); err == nil {
		t.Error("non 0/1 labels should error")
	}
}

func TestQDARejectsTinyClasses(t *testing.T) {
	// Per-class covariance needs more rows than features.
	X := mat.NewDense(4, 3, []float64{
		1, 2, 3,
		2, 3, 4,
		5, 6, 7,
		6, 7, 8,
	})
	y := mat.NewDense(4, 1, []float64{0, 0, 1, 1})

	if err := NewQDA().Fit(X, y); err == nil {
		t.Error("classes smaller than the feature count should error")
	}
}
