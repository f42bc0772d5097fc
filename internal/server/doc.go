// Package server is the synchronous inference surface: a form page on /, a
// single-row predict endpoint on /predict, and prometheus exposition on
// /metrics.
//
// The fitted transformer and registry-resolved model are loaded once at
// startup and shared read-only across requests; Reload swaps both under a
// lock when the daemon receives SIGHUP. Each request is stateless and
// independent; there is no queuing, batching, or per-request timeout.
package server
