// Package tree defines the declarative visualization tree handed to the
// rendering host.
//
// A [Node] is the typed output of one builder call: a type tag the host uses
// to pick a renderer, the shaped data, type-specific fields and optional
// interaction callbacks. A [Grid] arranges nodes in rows of cells.
//
// Nodes built from several children by the facet composer are unions: they
// carry no type of their own and instead map each record type tag to the
// child node type that renders it (see [Node.TypeFor]).
package tree
