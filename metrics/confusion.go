// Package metrics implements the pure performance statistics computed from
// out-of-fold predictions: confusion-matrix metrics for binary targets and
// RMSE/R² for continuous targets. All functions are stateless and
// deterministic given their inputs.
package metrics

import (
	"math"

	"github.com/YuminosukeSato/modelcmp/pkg/errors"
)

// ConfusionMatrix is a 2×2 count table of observed (rows) versus predicted
// (columns) binary labels. Index 1 is the positive class: the second level
// of the target in sorted order.
type ConfusionMatrix struct {
	counts [2][2]int
	total  int
}

// NewConfusionMatrix tallies observed/predicted label pairs. Labels must be
// encoded 0/1; anything else is a ValueError.
func NewConfusionMatrix(observed, predicted []float64) (*ConfusionMatrix, error) {
	if len(observed) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "NewConfusionMatrix")
	}
	if len(observed) != len(predicted) {
		return nil, errors.NewDimensionError("NewConfusionMatrix", len(observed), len(predicted), 0)
	}

	var cm ConfusionMatrix
	for i := range observed {
		obs, ok := labelIndex(observed[i])
		if !ok {
			return nil, errors.NewValueError("NewConfusionMatrix", "observed label is not 0 or 1")
		}
		pred, ok := labelIndex(predicted[i])
		if !ok {
			return nil, errors.NewValueError("NewConfusionMatrix", "predicted label is not 0 or 1")
		}
		cm.counts[obs][pred]++
		cm.total++
	}
	return &cm, nil
}

func labelIndex(v float64) (int, bool) {
	switch v {
	case 0:
		return 0, true
	case 1:
		return 1, true
	default:
		return 0, false
	}
}

// At returns the count of rows observed as obs and predicted as pred.
func (cm *ConfusionMatrix) At(obs, pred int) int {
	return cm.counts[obs][pred]
}

// Total returns the number of tallied rows.
func (cm *ConfusionMatrix) Total() int {
	return cm.total
}

// ConfusionMetrics is the set of statistics derived from one confusion
// matrix. Any value that is ill-defined for the given counts is NaN.
type ConfusionMetrics struct {
	Accuracy              float64
	MisclassificationRate float64
	Sensitivity           float64
	Recall                float64
	FScore                float64
}

// Metrics derives the performance statistics from the matrix.
//
// Sensitivity uses the column-sum denominator TP/(TP+FP) and recall the
// row-sum denominator TP/(TP+FN). The naming follows the arithmetic of the
// original analysis rather than the conventional precision/recall labels;
// the F-score is the harmonic mean of the two and matches numerically.
func (cm *ConfusionMatrix) Metrics() ConfusionMetrics {
	tn := float64(cm.counts[0][0])
	fn := float64(cm.counts[1][0])
	fp := float64(cm.counts[0][1])
	tp := float64(cm.counts[1][1])
	n := float64(cm.total)

	accuracy := (tn + tp) / n

	sensitivity := ratioOrNaN(tp, tp+fp, "sensitivity", "no rows predicted positive")
	recall := ratioOrNaN(tp, tp+fn, "recall", "no rows observed positive")

	fscore := math.NaN()
	switch {
	case math.IsNaN(sensitivity) || math.IsNaN(recall):
		errors.Warn(errors.NewUndefinedMetricWarning("f_score", "sensitivity or recall is undefined"))
	case sensitivity+recall == 0:
		errors.Warn(errors.NewUndefinedMetricWarning("f_score", "sensitivity and recall are both zero"))
	default:
		fscore = 2 * sensitivity * recall / (sensitivity + recall)
	}

	return ConfusionMetrics{
		Accuracy:              accuracy,
		MisclassificationRate: 1 - accuracy,
		Sensitivity:           sensitivity,
		Recall:                recall,
		FScore:                fscore,
	}
}

func ratioOrNaN(num, denom float64, metric, condition string) float64 {
	if denom == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning(metric, condition))
		return math.NaN()
	}
	return num / denom
}
