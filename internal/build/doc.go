// Package build orchestrates the portfolio pipeline.
//
// A run executes the originals codec stage, then manifest reconciliation and
// emission, then page rendering, strictly in that order. Every run holds an
// exclusive file lock on the project root so two processes never interleave
// writes to the output tree, and carries a UUID run id through the context
// into every log line.
package build
