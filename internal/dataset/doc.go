// Package dataset provides the ordered string-table the batch pipeline moves
// between stages, plus CSV load/store helpers.
//
// Cells stay untyped strings until the feature transformer decides which
// columns are numeric; an empty cell always means missing. Writes go through
// a temp-file rename so a failed stage never leaves a half-written output.
package dataset
