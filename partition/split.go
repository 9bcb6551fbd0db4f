package partition

import (
	"github.com/YuminosukeSato/modelcmp/pkg/errors"
)

// Split is a single train/test partition of rows: disjoint, covering every
// row exactly once.
type Split struct {
	TrainIndices []int
	TestIndices  []int
}

// TrainTestSplit partitions n rows into a training set of about trainFrac
// of the rows and a test set of the remainder, sampled without replacement
// with the given seed. The regression evaluator creates this once per
// evaluation call and reuses it across the whole alpha grid.
func TrainTestSplit(n int, trainFrac float64, seed int64) (Split, error) {
	if n < 2 {
		return Split{}, errors.NewValidationError("n",
			"need at least two rows to split", n)
	}
	if trainFrac <= 0 || trainFrac >= 1 {
		return Split{}, errors.NewValidationError("trainFrac",
			"training fraction must lie strictly between 0 and 1", trainFrac)
	}

	indices := permutation(n, true, seed)

	nTrain := int(float64(n)*trainFrac + 0.5)
	// Both sides must be non-empty.
	if nTrain < 1 {
		nTrain = 1
	}
	if nTrain > n-1 {
		nTrain = n - 1
	}

	train := make([]int, nTrain)
	copy(train, indices[:nTrain])
	test := make([]int, n-nTrain)
	copy(test, indices[nTrain:])

	return Split{TrainIndices: train, TestIndices: test}, nil
}
