// Package config loads, normalizes, and validates the TOML configuration
// shared by the batch pipeline CLI and the serving daemon, plus the small
// parameters file that names the training target column.
//
// Path fields are tilde-expanded and made absolute at load time so the rest
// of the system never touches the filesystem layout logic. The registry
// credential is environment-only and never appears in the config file.
package config
