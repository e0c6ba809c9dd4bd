// Package record defines the open record model shared by every stage of the
// facetkit pipeline.
//
// A [Record] is a heterogeneous mapping of field name to value as returned by
// the record store: scalars, nested mappings and sequences. The query layer
// tags each record with its collection type; the grouping and facet stages
// annotate records with derived fields.
//
// # Path resolution
//
// [Find] resolves a dotted attribute path against nested mappings. Absence is
// a normal outcome reported through the second return value, never a panic:
//
//	v, ok := record.Find(r, "run.hash")
//	if !ok {
//	    // field missing somewhere along the path
//	}
//
// # String form
//
// [String] renders any value in the canonical string form used for group keys
// and ordering. The form is stable across runs: mappings render with sorted
// keys.
package record
