// Package config loads, normalizes, and validates portfolio configuration.
//
// It supplies repository defaults (the fixed category list, the variant
// presets, and the conventional images/site layout), resolves every path
// against the project root, reads an optional TOML file, and honours
// environment fallbacks such as PORTFOLIO_LOG_LEVEL. The Config type is the
// single value handed to every pipeline stage, so tests can supply reduced
// category sets without touching package state.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical log formats, and clear validation errors.
package config
