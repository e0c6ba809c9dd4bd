// Package layout publishes visualization nodes into the rendering host's
// layout grid and gives access to the host's state slot.
//
// The grid and the state slot are owned by the host. This package reaches
// them only through the [Store] and [StateStore] interfaces:
//   - [MemoryStore]: in-process host, keeps interaction callbacks
//   - [FileStore]: JSON files under a directory, for CLI runs
//   - [RedisStore]: shared grid and state for multi-instance hosts
//
// # Publishing
//
// [Publisher.AutoUpdate] merges a node into the current grid: every cell of
// the same type is replaced by the node; if none matches the node is added
// as a new row. [Publisher.Layout] publishes an explicit grid verbatim.
//
//	pub := layout.NewPublisher(layout.NewMemoryStore(), nil)
//	if err := pub.AutoUpdate(ctx, node); err != nil {
//	    return err
//	}
//
// Publishing is read-modify-write without a transaction: a concurrent
// writer between Read and Publish is overwritten.
package layout
