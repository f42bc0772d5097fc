// Package normalize turns raw car-listing rows into the reduced, bucketed
// schema the feature pipeline consumes: a known per-model price unit error
// is corrected, the registration prefix becomes a state name, free-text
// insurance/service/certificate fields collapse into fixed buckets with
// non-null defaults, and identifying columns are dropped.
//
// Rules run in a fixed order because later ones depend on columns derived
// by earlier ones. Row count is always preserved; a shape problem aborts
// the whole batch.
package normalize
