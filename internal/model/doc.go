// Package model implements the regression forest fit on the transformed
// feature matrix: CART trees split on squared-error reduction over bootstrap
// samples, and predictions average the per-tree leaf means.
//
// Fitted forests serialize to a versioned gob artifact consumed read-only by
// the serving daemon.
package model
