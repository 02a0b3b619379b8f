// Package reconcile renders virtual trees into a host tree and keeps the
// host tree in line with new virtual trees, preserving component instances
// across updates.
//
// # Entry points
//
//	eng := reconcile.New(adapter)
//	node, err := eng.Render(tree, mountPoint)   // initial mount
//	node, err = eng.Patch(node, nextTree, nil)  // update in place
//
// Component instances request their own re-render with SetState. All
// three calls are synchronous: each runs to completion, or fails, before
// returning.
//
// # Reconciliation
//
// Patch compares a live host node with a new virtual node at the same tree
// position. Text nodes are kept when their content is unchanged and
// replaced otherwise. Elements with a different tag are replaced. Elements
// with the same tag keep their host node: children are matched by key
// (explicit "key" prop, else "index_<i>"), patched in place or created,
// reordered to match the new child order, and unmatched children are
// unmounted and removed. Props are then refreshed according to the
// configured AttrRefresh policy.
//
// # Ownership
//
// The engine keeps a side table from host node to the component instance
// whose output it is, and to the node's reconciliation key. Host nodes
// never hold references to instances.
//
// # Concurrency
//
// Engine methods assume exclusive access to the subtrees they touch. Use
// Mount to get a Root, whose Update, Run and Unmount methods serialize work
// on that root with a mutex.
package reconcile
