// Package registry is the SQLite-backed model registry: training registers
// each fitted model under a monotonically increasing version number, an
// operator promotes one version to production, and the serving daemon
// resolves a model name to the production version or, failing that, the
// highest registered one.
package registry
