// Package pipeline sequences the offline batch stages (normalize, features,
// train) under a single file lock and defines the failure taxonomy the
// stages share. Serving is deliberately outside its scope: artifact
// handover between a pipeline run and a running daemon happens through the
// registry and an explicit daemon reload.
package pipeline
