// Package config loads, normalizes, and validates cratekit configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// CRATEKIT_LLM_API_KEY. The Config type centralizes every knob the tools need,
// so quarantine, log, and transcript roots are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, lower-cased extensions, and clear validation errors.
package config
