// Package neighbors implements k-nearest-neighbors classification on
// standardized features, with the neighbor count selected by inner
// cross-validated accuracy when not fixed by the caller.
package neighbors

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelcmp/core/model"
	"github.com/YuminosukeSato/modelcmp/partition"
	"github.com/YuminosukeSato/modelcmp/pkg/errors"
	"github.com/YuminosukeSato/modelcmp/preprocessing"
)

// KNN is a majority-vote k-nearest-neighbors classifier for 0/1 labels.
// Features are standardized with statistics from the training data so no
// single feature dominates the Euclidean distance.
//
// With K == 0 the neighbor count is chosen during Fit by cross-validated
// accuracy over a small grid of odd values.
type KNN struct {
	state *model.StateManager

	// K is the requested neighbor count; 0 means select automatically.
	K int

	// Seed drives the inner cross-validation used for selection.
	Seed int64

	scaler    *preprocessing.StandardScaler
	trainX    *mat.Dense // standardized training rows
	trainY    []float64
	selectedK int
}

// NewKNN creates a KNN classifier. Pass k == 0 to select the neighbor
// count by inner cross-validation.
func NewKNN(k int, seed int64) *KNN {
	return &KNN{state: model.NewStateManager(), K: k, Seed: seed}
}

// SelectedK returns the neighbor count in use after fitting.
func (knn *KNN) SelectedK() int { return knn.selectedK }

// Fit stores the standardized training data and, if requested, selects the
// neighbor count.
func (knn *KNN) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()
	if nSamples != yRows {
		return errors.NewDimensionError("KNN.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("KNN.Fit", "y must be a column vector")
	}

	labels := make([]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		v := y.At(i, 0)
		if v != 0 && v != 1 {
			return errors.NewValueError("KNN.Fit", "labels must be encoded 0/1")
		}
		labels[i] = v
	}

	knn.scaler = preprocessing.NewStandardScaler()
	Xs, err := knn.scaler.FitTransform(X)
	if err != nil {
		return errors.Wrap(err, "KNN.Fit")
	}
	knn.trainX = Xs
	knn.trainY = labels

	knn.selectedK = knn.K
	if knn.selectedK == 0 {
		knn.selectedK = knn.selectK()
	}
	if knn.selectedK > nSamples {
		knn.selectedK = nSamples
	}

	knn.state.SetDimensions(nFeatures, nSamples)
	knn.state.SetFitted()
	return nil
}

// selectK picks the odd neighbor count with the highest cross-validated
// accuracy on the training data, preferring the smaller k on ties.
func (knn *KNN) selectK() int {
	n := len(knn.trainY)

	var grid []int
	for k := 1; k <= 15 && k < n; k += 2 {
		grid = append(grid, k)
	}
	if len(grid) == 0 {
		return 1
	}

	nFolds := 5
	if nFolds >= n {
		nFolds = n - 1
	}
	if nFolds < 2 {
		return grid[0]
	}

	folds, err := partition.NewStratifiedKFold(nFolds, knn.Seed).Split(knn.trainY)
	if err != nil {
		return grid[0]
	}

	bestK, bestAcc := grid[0], -1.0
	for _, k := range grid {
		correct, total := 0, 0
		for _, fold := range folds {
			for _, idx := range fold.TestIndices {
				pred := knn.voteAmong(fold.TrainIndices, idx, k)
				if pred == knn.trainY[idx] {
					correct++
				}
				total++
			}
		}
		acc := float64(correct) / float64(total)
		if acc > bestAcc {
			bestAcc = acc
			bestK = k
		}
	}
	return bestK
}

// voteAmong classifies training row target using only the candidate rows as
// neighbors.
func (knn *KNN) voteAmong(candidates []int, target, k int) float64 {
	_, p := knn.trainX.Dims()
	row := make([]float64, p)
	for j := 0; j < p; j++ {
		row[j] = knn.trainX.At(target, j)
	}
	return knn.classify(row, candidates, k)
}

// Predict returns 0/1 labels for the input rows.
func (knn *KNN) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !knn.state.IsFitted() {
		return nil, errors.NewNotFittedError("KNN", "Predict")
	}
	n, c := X.Dims()
	nFeatures, _ := knn.state.GetDimensions()
	if c != nFeatures {
		return nil, errors.NewDimensionError("KNN.Predict", nFeatures, c, 1)
	}

	Xs, err := knn.scaler.Transform(X)
	if err != nil {
		return nil, errors.Wrap(err, "KNN.Predict")
	}

	all := make([]int, len(knn.trainY))
	for i := range all {
		all[i] = i
	}

	out := mat.NewDense(n, 1, nil)
	row := make([]float64, nFeatures)
	for i := 0; i < n; i++ {
		for j := 0; j < nFeatures; j++ {
			row[j] = Xs.At(i, j)
		}
		out.Set(i, 0, knn.classify(row, all, knn.selectedK))
	}
	return out, nil
}

// classify votes among the k candidates nearest to row. Ties in the vote
// go to the class of the single nearest neighbor.
func (knn *KNN) classify(row []float64, candidates []int, k int) float64 {
	type neighbor struct {
		dist  float64
		label float64
	}

	neighbors := make([]neighbor, 0, len(candidates))
	for _, idx := range candidates {
		d := 0.0
		for j := range row {
			diff := row[j] - knn.trainX.At(idx, j)
			d += diff * diff
		}
		neighbors = append(neighbors, neighbor{dist: math.Sqrt(d), label: knn.trainY[idx]})
	}

	sort.Slice(neighbors, func(i, j int) bool { return neighbors[i].dist < neighbors[j].dist })

	if k > len(neighbors) {
		k = len(neighbors)
	}

	votes := 0.0
	for _, nb := range neighbors[:k] {
		votes += nb.label
	}
	switch {
	case votes*2 > float64(k):
		return 1
	case votes*2 < float64(k):
		return 0
	default:
		return neighbors[0].label
	}
}

// GetParams returns the model's hyperparameters.
func (knn *KNN) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"k":    knn.K,
		"seed": knn.Seed,
	}
}
