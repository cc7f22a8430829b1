// Package naming implements the filename grammar that ties variant files,
// hero markers, and focus sidecars to the item they belong to.
//
// Every name is read as `<id>["-" suffix]"." ext`. The suffix is the final
// hyphen-delimited token of the stem and is only recognised when it is one of
// the known tokens (thumb, medium, full, hero, focus); anything else stays part
// of the id, so ids may themselves contain hyphens. Callers should parse names
// through Parse instead of splitting strings by hand.
package naming
