// Package layout implements the first two stages of the formatting
// pipeline: the layout normalizer and the structural classifier.
//
// Normalize establishes page geometry and the global style baseline from
// the formatting configuration. ClassifyAndReflow then walks the block
// sequence exactly once, assigns a semantic role to each block, applies
// role-specific styling on top of the baseline, and cleans up redundant
// whitespace. Style resolution is strictly ordered: the normalizer sets
// the baseline, the classifier overrides per role, and no stage reaches
// back into an earlier one.
package layout
