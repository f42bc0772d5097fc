// Package metrics assembles the prometheus collectors the serving daemon
// exposes on /metrics: request counts and latency per endpoint, prediction
// counts per fixed price bucket, and reload outcomes.
package metrics
