// Command carprice is the batch and operations CLI: it runs the normalize,
// features, and train stages (individually or as one locked pipeline run)
// and inspects or promotes registered model versions. Serving lives in the
// separate carpriced daemon.
package main
