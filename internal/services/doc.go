// Package services defines shared utilities consumed by the pipeline stages.
//
// Key responsibilities:
//   - Context helpers that stamp category keys, stage names, and build run
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that tag failures so batch
//     reports and the CLI can classify them (codec vs missing input vs
//     configuration).
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
