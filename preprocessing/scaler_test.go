package preprocessing

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestStandardScaler(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 10,
		2, 20,
		3, 30,
		4, 40,
	})

	scaler := NewStandardScaler()
	Xs, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	r, c := Xs.Dims()
	for j := 0; j < c; j++ {
		mean, variance := 0.0, 0.0
		for i := 0; i < r; i++ {
			mean += Xs.At(i, j)
		}
		mean /= float64(r)
		for i := 0; i < r; i++ {
			diff := Xs.At(i, j) - mean
			variance += diff * diff
		}
		variance /= float64(r)

		if math.Abs(mean) > 1e-10 {
			t.Errorf("column %d: mean = %v, want 0", j, mean)
		}
		if math.Abs(variance-1) > 1e-10 {
			t.Errorf("column %d: variance = %v, want 1", j, variance)
		}
	}
}

func TestStandardScalerConstantFeature(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{5, 5, 5})

	scaler := NewStandardScaler()
	Xs, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		if got := Xs.At(i, 0); got != 0 {
			t.Errorf("constant feature row %d = %v, want 0", i, got)
		}
	}
}

func TestStandardScalerNotFitted(t *testing.T) {
	scaler := NewStandardScaler()
	if _, err := scaler.Transform(mat.NewDense(1, 1, []float64{1})); err == nil {
		t.Error("Transform before Fit should error")
	}
}

func TestStandardScalerDimensionMismatch(t *testing.T) {
	scaler := NewStandardScaler()
	if err := scaler.Fit(mat.NewDense(3, 2, nil)); err != nil {
		t.Fatal(err)
	}
	if _, err := scaler.Transform(mat.NewDense(3, 3, nil)); err == nil {
		t.Error("feature-count mismatch should error")
	}
}
