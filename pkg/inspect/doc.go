// Package inspect serves a live view of a mounted tree over HTTP.
//
// Routes:
//
//	GET  /healthz                 liveness
//	GET  /tree                    current tree as HTML (?pretty=1 to indent)
//	GET  /journal?since=N         mutations after seq N as JSON
//	                              (?format=binary for protocol frames)
//	POST /events/{node}/{event}   dispatch an event to a node by ID
//	GET  /ws                      live mutation stream (binary frames)
//	GET  /metrics                 Prometheus metrics
//
// Tree reads and event dispatch run through the Runner, normally the
// reconcile.Root that owns the tree, so they never interleave with an
// update.
package inspect
