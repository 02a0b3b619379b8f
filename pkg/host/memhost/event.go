package memhost

import (
	"fmt"
)

// Event is passed to listeners fired by Dispatch.
type Event struct {
	Type    string
	Target  *Node
	Payload any
}

// Dispatch fires the listener bound for event on n. Supported handler
// signatures are func(), func(*Event), func(any) and the error-returning
// forms of each. It reports false when no listener is bound.
func (d *Document) Dispatch(n *Node, event string, payload any) (bool, error) {
	if n == nil || n.doc != d {
		return false, foreign(n)
	}
	handler, ok := n.listeners[event]
	if !ok {
		return false, nil
	}
	ev := &Event{Type: event, Target: n, Payload: payload}

	switch fn := handler.(type) {
	case func():
		fn()
	case func() error:
		return true, fn()
	case func(*Event):
		fn(ev)
	case func(*Event) error:
		return true, fn(ev)
	case func(any):
		fn(payload)
	case func(any) error:
		return true, fn(payload)
	default:
		return true, fmt.Errorf("memhost: unsupported handler type %T for %q", handler, event)
	}
	return true, nil
}

// Find returns the first element in document order under root whose
// attribute name equals value.
func Find(root *Node, name, value string) *Node {
	if root == nil {
		return nil
	}
	if v, ok := root.Attr(name); ok && v == value {
		return root
	}
	for _, c := range root.children {
		if found := Find(c, name, value); found != nil {
			return found
		}
	}
	return nil
}

// FindTag returns every element under root with the given tag, in
// document order.
func FindTag(root *Node, tag string) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(n *Node) {
		if !n.text && n.tag == tag {
			out = append(out, n)
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return out
}

// Lookup returns the attached node with the given ID, or nil.
func (d *Document) Lookup(id uint64) *Node {
	var walk func(*Node) *Node
	walk = func(n *Node) *Node {
		if n.id == id {
			return n
		}
		for _, c := range n.children {
			if found := walk(c); found != nil {
				return found
			}
		}
		return nil
	}
	return walk(d.body)
}
