// Package vtest provides test helpers for components mounted with the
// reconcile engine.
//
// A Harness mounts a virtual tree into a fresh memhost.Document and
// exposes the rendered HTML and the mutation journal:
//
//	h := vtest.Mount(t, vdom.Class(Counter, nil))
//	h.ExpectHTML(`<p>count: 0</p>`)
//	h.Fire("button", "click", nil)
//	h.ExpectContains("count: 1")
//
// Mutation counts are measured from the last Reset:
//
//	h.Reset()
//	h.Update(vdom.H("p", nil, "same"))
//	if h.Count(host.OpSetText) != 0 { ... }
package vtest
