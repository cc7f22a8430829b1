// Package manifest turns reconciled catalog items into the sections.json
// document consumed by the browser gallery script.
//
// Every entry names the canonical thumb and full paths in both formats, even
// when a file is missing, and exposes per-format srcset strings that list only
// the variants that exist. The document carries a key for every configured
// category in configured order, so output is byte-stable across runs.
package manifest
