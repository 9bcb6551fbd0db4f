// Package partition assigns dataset rows to cross-validation folds and
// train/test splits. Every splitter is a true partition: validation sets are
// disjoint and their union is the full row set exactly once.
package partition

import (
	"math/rand/v2"
	"sort"

	"github.com/YuminosukeSato/modelcmp/pkg/errors"
)

// Fold holds the row indices of one cross-validation iteration.
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// KFold splits rows into k folds of near-equal size (differing by at most
// one row) without regard to labels. Used for the inner model-selection
// loops on training data.
type KFold struct {
	NSplits int
	Shuffle bool
	Seed    int64
}

// NewKFold creates a k-fold splitter with a fixed seed for reproducibility.
func NewKFold(nSplits int, seed int64) *KFold {
	return &KFold{NSplits: nSplits, Shuffle: true, Seed: seed}
}

// Split generates the train/test index pairs for n rows.
func (kf *KFold) Split(n int) ([]Fold, error) {
	if err := checkSplits(kf.NSplits, n); err != nil {
		return nil, err
	}

	indices := permutation(n, kf.Shuffle, kf.Seed)

	// Deal rows round-robin so fold sizes differ by at most one.
	testSets := make([][]int, kf.NSplits)
	for g, idx := range indices {
		f := g % kf.NSplits
		testSets[f] = append(testSets[f], idx)
	}
	return assemble(testSets, n), nil
}

// StratifiedKFold splits rows into k folds preserving class proportions:
// fold sizes differ by at most one row overall, and each class's count per
// fold differs by at most one as well.
type StratifiedKFold struct {
	NSplits int
	Shuffle bool
	Seed    int64
}

// NewStratifiedKFold creates a stratified k-fold splitter with a fixed seed.
func NewStratifiedKFold(nSplits int, seed int64) *StratifiedKFold {
	return &StratifiedKFold{NSplits: nSplits, Shuffle: true, Seed: seed}
}

// Split generates stratified train/test index pairs for the given labels.
func (skf *StratifiedKFold) Split(labels []float64) ([]Fold, error) {
	n := len(labels)
	if err := checkSplits(skf.NSplits, n); err != nil {
		return nil, err
	}

	// Group row indices by class, iterating classes in sorted order so the
	// assignment is deterministic for a given seed.
	classIndices := make(map[float64][]int)
	for i, label := range labels {
		classIndices[label] = append(classIndices[label], i)
	}
	classes := make([]float64, 0, len(classIndices))
	for label := range classIndices {
		classes = append(classes, label)
	}
	sort.Float64s(classes)

	if skf.Shuffle {
		r := rand.New(rand.NewPCG(uint64(skf.Seed), uint64(skf.Seed)))
		for _, label := range classes {
			indices := classIndices[label]
			r.Shuffle(len(indices), func(i, j int) {
				indices[i], indices[j] = indices[j], indices[i]
			})
		}
	}

	// Deal the class blocks round-robin with a running global position:
	// per-fold sizes and per-class counts both stay within one of each other.
	testSets := make([][]int, skf.NSplits)
	g := 0
	for _, label := range classes {
		for _, idx := range classIndices[label] {
			f := g % skf.NSplits
			testSets[f] = append(testSets[f], idx)
			g++
		}
	}
	return assemble(testSets, n), nil
}

func checkSplits(k, n int) error {
	if n == 0 {
		return errors.Wrap(errors.ErrEmptyData, "partition")
	}
	if k < 2 || k >= n {
		return errors.NewValidationError("k",
			"fold count must satisfy 2 <= k < row count", k)
	}
	return nil
}

func permutation(n int, shuffle bool, seed int64) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if shuffle {
		r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
		r.Shuffle(n, func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}
	return indices
}

// assemble builds Fold values from the test sets, with each fold's training
// set being every row not in its test set.
func assemble(testSets [][]int, n int) []Fold {
	folds := make([]Fold, len(testSets))
	for i, test := range testSets {
		inTest := make([]bool, n)
		for _, idx := range test {
			inTest[idx] = true
		}
		train := make([]int, 0, n-len(test))
		for j := 0; j < n; j++ {
			if !inTest[j] {
				train = append(train, j)
			}
		}
		folds[i] = Fold{TrainIndices: train, TestIndices: test}
	}
	return folds
}
