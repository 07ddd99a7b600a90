// Package config loads, normalizes, and validates autosubtitle configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// HF_TOKEN and OPENROUTER_API_KEY, including ones declared in a local .env
// file. Command-line flags are applied on top of the loaded Config by the CLI.
package config
