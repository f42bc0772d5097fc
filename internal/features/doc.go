// Package features builds and applies the fitted column-wise encoding:
// numeric columns are mean-imputed and standardized, categorical columns are
// most-frequent-imputed and one-hot expanded, and the two blocks are
// concatenated in a fixed order.
//
// The transformer is fit exactly once on training data and serialized as a
// versioned artifact so the serving daemon reuses the same statistics for
// every request. Categories unseen at fit time transform to an all-zero
// indicator block instead of failing.
package features
