// Package memhost is an in-memory host tree implementing host.Adapter.
//
// It models the parts of a DOM the reconciler touches: element and text
// nodes, generic attributes, the checked/value/className fields, style,
// event listeners and focus. Every mutation is appended to a Journal,
// which tests use to count host effects and the inspector streams live.
//
//	doc := memhost.NewDocument()
//	eng := reconcile.New(doc)
//	eng.Render(vdom.H("p", nil, "x"), doc.Body())
//	doc.Journal().Len() // 4: create p, create text, append text, append p
package memhost
