// Package modelcmp is a supervised-learning model-comparison harness.
//
// Given a tabular dataset and a target column, the harness picks the
// evaluation protocol from the target's kind: a binary categorical target
// is scored by stratified k-fold cross-validation over a battery of
// classifiers (logistic regression, LDA, QDA, KNN), while a numeric target
// is scored on a held-out test split across an elastic-net mixing sweep
// with inner cross-validated penalty selection. Either way the result is a
// single labeled metrics table.
//
// The entry point is evaluate.Evaluate; see cmd/modelcmp for the CLI.
package modelcmp
