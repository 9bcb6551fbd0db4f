// Package model defines the capability interfaces shared by every estimator
// in the comparison harness, together with thread-safe fitted-state tracking.
package model

import "gonum.org/v1/gonum/mat"

// Fitter is the interface for models that can be trained.
type Fitter interface {
	// Fit trains the model on the given samples and targets.
	Fit(X, y mat.Matrix) error
}

// Predictor is the interface for models that can predict on new data.
type Predictor interface {
	// Predict returns one prediction per input row as an n×1 matrix.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Classifier is the capability consumed by the classification evaluator.
// Predicted labels are 0/1 floats in the level order fixed by the caller.
type Classifier interface {
	Fitter
	Predictor
}

// Regressor is the capability consumed by the regression evaluator.
type Regressor interface {
	Fitter
	Predictor
}

// ParameterGetter is the interface for models that expose their hyperparameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}
