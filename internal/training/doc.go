// Package training fits the regression forest on the processed feature
// matrix with default hyperparameters, persists the artifact, and registers
// the result as a new model version. There is no hyperparameter search and
// no retry; a fit failure aborts the run.
package training
