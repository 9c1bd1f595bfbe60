// Package model provides the in-memory representation of a manuscript
// that the formatting pipeline operates on.
//
// This package defines the types that every pipeline stage reads and
// mutates. A [Document] owns an ordered sequence of [Block] values plus
// the resolved [PageGeometry] and [StyleBaseline] for the run.
//
// # Blocks and Runs
//
// A [Block] is a paragraph-level unit: a sequence of inline [Run] spans
// plus paragraph properties and a semantic [Role]. Roles are assigned by
// the classification stage; a freshly parsed block is [RoleUnclassified].
//
// Blocks that carry content the engine does not restyle (tables, anchored
// drawings, and other constructs outside the recognized vocabulary) keep
// their original serialized form in Block.Raw and pass through the
// pipeline untouched.
//
// # Geometry
//
// [PageGeometry] holds trim dimensions and the four margins in points,
// with an inside/outside margin pair when mirrored margins are active.
// Validate enforces the binding-side invariant before any stage runs.
package model
