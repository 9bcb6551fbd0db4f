package dataset

import (
	"strings"
	"testing"
)

func buildDataset(t *testing.T) *Dataset {
	t.Helper()
	ds := New(4)
	if err := ds.AddNumeric("age", []float64{21, 34, 55, 42}); err != nil {
		t.Fatal(err)
	}
	if err := ds.AddCategorical("smoker", []string{"yes", "no", "no", "yes"}); err != nil {
		t.Fatal(err)
	}
	if err := ds.AddNumeric("income", []float64{30, 50, 80, 60}); err != nil {
		t.Fatal(err)
	}
	return ds
}

func TestTargetKind(t *testing.T) {
	ds := buildDataset(t)

	kind, err := ds.TargetKind("income")
	if err != nil {
		t.Fatalf("TargetKind(income) error = %v", err)
	}
	if kind != TargetContinuous {
		t.Errorf("TargetKind(income) = %v, want continuous", kind)
	}

	kind, err = ds.TargetKind("smoker")
	if err != nil {
		t.Fatalf("TargetKind(smoker) error = %v", err)
	}
	if kind != TargetBinary {
		t.Errorf("TargetKind(smoker) = %v, want binary", kind)
	}

	if _, err := ds.TargetKind("missing"); err == nil {
		t.Error("absent target should be a configuration error")
	}
}

func TestTargetKindRejectsMultiLevel(t *testing.T) {
	ds := New(3)
	_ = ds.AddNumeric("x", []float64{1, 2, 3})
	_ = ds.AddCategorical("color", []string{"red", "green", "blue"})

	if _, err := ds.TargetKind("color"); err == nil {
		t.Error("three-level categorical target should be rejected")
	}
}

func TestTargetVectorEncoding(t *testing.T) {
	ds := buildDataset(t)

	y, err := ds.TargetVector("smoker")
	if err != nil {
		t.Fatalf("TargetVector() error = %v", err)
	}

	// Levels sort to [no, yes]; "yes" is level index 1, the positive class.
	want := []float64{1, 0, 0, 1}
	for i, w := range want {
		if got := y.AtVec(i); got != w {
			t.Errorf("y[%d] = %v, want %v", i, got, w)
		}
	}
}

func TestDesignMatrixOneHot(t *testing.T) {
	ds := buildDataset(t)

	X, err := ds.DesignMatrix("income")
	if err != nil {
		t.Fatalf("DesignMatrix() error = %v", err)
	}

	rows, cols := X.Dims()
	if rows != 4 || cols != 2 {
		t.Fatalf("DesignMatrix dims = (%d,%d), want (4,2)", rows, cols)
	}

	// Column 0 is age; column 1 is the "yes" indicator (first level dropped).
	if got := X.At(0, 0); got != 21 {
		t.Errorf("X[0,0] = %v, want 21", got)
	}
	wantInd := []float64{1, 0, 0, 1}
	for i, w := range wantInd {
		if got := X.At(i, 1); got != w {
			t.Errorf("X[%d,1] = %v, want %v", i, got, w)
		}
	}
}

func TestAddColumnValidation(t *testing.T) {
	ds := New(3)
	if err := ds.AddNumeric("x", []float64{1, 2}); err == nil {
		t.Error("length mismatch should error")
	}
	if err := ds.AddNumeric("x", []float64{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	if err := ds.AddNumeric("x", []float64{4, 5, 6}); err == nil {
		t.Error("duplicate column should error")
	}
}

func TestFromCSV(t *testing.T) {
	csvData := "age,smoker,income\n21,yes,30.5\n34,no,50\n55,no,80\n"

	ds, err := FromCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("FromCSV() error = %v", err)
	}

	if ds.NumRows() != 3 {
		t.Errorf("NumRows = %d, want 3", ds.NumRows())
	}

	kind, err := ds.TargetKind("income")
	if err != nil || kind != TargetContinuous {
		t.Errorf("income should parse as numeric, got kind=%v err=%v", kind, err)
	}
	kind, err = ds.TargetKind("smoker")
	if err != nil || kind != TargetBinary {
		t.Errorf("smoker should parse as binary categorical, got kind=%v err=%v", kind, err)
	}
}

func TestFromCSVErrors(t *testing.T) {
	if _, err := FromCSV(strings.NewReader("a,b\n")); err == nil {
		t.Error("header-only CSV should error")
	}
	if _, err := FromCSV(strings.NewReader("a,b\n1,2,3\n")); err == nil {
		t.Error("ragged row should error")
	}
}
