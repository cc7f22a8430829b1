// Package optimize plans and runs variant generation and Photoshop export.
//
// Two planners feed the same runner: PlanOriginals walks the camera originals
// tree and targets the matching category directory, PlanInPlace picks up
// loose source images already sitting in category directories. Run decodes
// each source once, encodes every preset in both formats, and records each
// written or failed file in a batch.Report. A failing file never stops the
// batch.
//
// PlanPSDs and ConvertPSDs run ahead of the originals planner: each layered
// document is flattened onto white and saved as a JPEG beside it.
package optimize
