// Package tree implements structural editing of layer trees.
//
// Every function takes a tree (the ordered slice of root layers) and
// returns a derived value or a new tree; the input is never modified.
// Edits rebuild only the path from the roots to the edited sibling slice
// and share every other subtree with the input. When an edit finds no
// target, the input slice itself is returned.
//
// Searches run in pre-order, depth first, left to right, and act on the
// first match only. Layer ids are assumed unique across the tree; a tree
// with duplicate ids gives unspecified (but memory-safe) results.
//
// Nothing here blocks, logs or fails: a missing target is an ordinary
// outcome reported through the return values.
package tree
