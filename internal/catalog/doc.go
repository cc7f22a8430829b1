// Package catalog reconciles a category directory listing into gallery items.
//
// An item exists when a thumb variant exists in at least one format. For each
// item the reconciler records which size variants are present per format,
// derives alt text from the id, resolves the optional focal point sidecar, and
// applies the hero rules: every id named by a `-hero.` file or by hero.txt is
// flagged, and when none is named the lexicographically first id is.
//
// Reconcile is pure over its inputs; ScanDir and ReconcileDir adapt it to a
// directory on disk.
package catalog
