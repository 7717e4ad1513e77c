// Package layer defines the layer tree types for Strata.
// A document is an ordered sequence of root layers; the group variant
// owns an ordered list of child layers. Values of this package are treated
// as immutable once they are part of a tree: editing operations in
// package tree build new nodes instead of writing through existing ones.
package layer
