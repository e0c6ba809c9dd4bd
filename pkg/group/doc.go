// Package group partitions record collections into ordered groups.
//
// A dimension is described by a [Spec]: either a list of dotted field paths
// ([Fields]) or a derivation function ([Derive]). [Group] resolves each
// record's values for the dimension, hashes their string form into a group
// key, tags the record with that key and returns one [Descriptor] per
// distinct key.
//
// # Ordering
//
// Descriptor order is deterministic so that repeated rebuilds assign the same
// color, stroke and facet index to the same logical group. For field specs
// the descriptors go through one stable sort pass per dimension, left to
// right, using a tiered key:
//
//	tier 0  digit-only values, compared as integers
//	tier 1  other scalars, compared as strings
//	tier 2  missing values
//	tier 3  sequences and mappings, compared by string form
//
// For derived specs the descriptors are sorted by the string form of their
// value, descending.
package group
