// Package vdom provides the virtual tree model reconciled by recon.
//
// A virtual tree is an immutable description of a desired UI subtree.
// Every node is one of five kinds, resolved once when the node is built:
//
//   - KindEmpty: booleans and nil; renders to an empty text node
//   - KindText: strings and numbers; renders to a text node
//   - KindElement: a host tag with props and children
//   - KindFunc: a stateless function component
//   - KindClass: a stateful component type backed by an instance
//
// # Construction
//
// H is the generic constructor. Its kind argument selects the variant:
//
//	H("ul", Props{"class": "todo"},
//	    H("li", Props{"key": 1}, "first"),
//	    H(Item, Props{"key": 2, "label": "second"}),
//	    H(Counter, nil),
//	)
//
// A nil Props is normalized to an empty map. Children may be *VNode,
// []*VNode, []any, strings, numbers, booleans, or nil.
//
// # Components
//
// A stateful component type is declared once with Define. Its constructor
// receives the Instance handle used to read props and state and to request
// updates with SetState. Lifecycle callbacks are optional capability
// interfaces (WillMountHook, DidMountHook, ...).
package vdom
