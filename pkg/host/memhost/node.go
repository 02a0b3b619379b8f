package memhost

import "sort"

// Node is an element or text node in a Document.
type Node struct {
	id       uint64
	doc      *Document
	text     bool
	tag      string
	content  string
	parent   *Node
	children []*Node

	attrs     map[string]string
	fields    map[string]any
	style     map[string]string
	listeners map[string]any
}

// ID returns the node's document-unique identifier.
func (n *Node) ID() uint64 { return n.id }

// IsText reports whether n is a text node.
func (n *Node) IsText() bool { return n.text }

// Tag returns the element tag, or "" for text nodes.
func (n *Node) Tag() string { return n.tag }

// Text returns the content of a text node.
func (n *Node) Text() string { return n.content }

// Parent returns the parent node, or nil.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Attr returns a generic attribute.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// AttrNames returns the attribute names in sorted order.
func (n *Node) AttrNames() []string {
	names := make([]string, 0, len(n.attrs))
	for k := range n.attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Field returns a direct field value.
func (n *Node) Field(name string) any {
	return n.fields[name]
}

// Style returns a style field.
func (n *Node) Style(name string) string {
	return n.style[name]
}

// StyleNames returns the style field names in sorted order.
func (n *Node) StyleNames() []string {
	names := make([]string, 0, len(n.style))
	for k := range n.style {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// HasListener reports whether a handler is bound for event.
func (n *Node) HasListener(event string) bool {
	_, ok := n.listeners[event]
	return ok
}

// ListenerNames returns the events with a bound handler, sorted.
func (n *Node) ListenerNames() []string {
	names := make([]string, 0, len(n.listeners))
	for k := range n.listeners {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Listener returns the handler bound for event.
func (n *Node) Listener(event string) any {
	return n.listeners[event]
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	if n.text {
		return n.content
	}
	var out []byte
	for _, c := range n.children {
		out = append(out, c.TextContent()...)
	}
	return string(out)
}

// Index returns n's position among its siblings, or -1 when detached.
func (n *Node) Index() int {
	if n.parent == nil {
		return -1
	}
	for i, c := range n.parent.children {
		if c == n {
			return i
		}
	}
	return -1
}

// contains reports whether other is n or one of its descendants.
func (n *Node) contains(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

func (n *Node) detach() {
	p := n.parent
	if p == nil {
		return
	}
	if i := n.Index(); i >= 0 {
		p.children = append(p.children[:i], p.children[i+1:]...)
	}
	n.parent = nil
}
