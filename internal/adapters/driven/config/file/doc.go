// Package file provides a TOML-backed ConfigStore rooted at the
// loan-assistant config directory (~/.loan-assistant by default).
//
// Secrets never live in the config file: the watsonx API key is read
// from the environment by the CLI layer. The file holds endpoints,
// model selection and pipeline tuning only.
package file
