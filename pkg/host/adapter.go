package host

// Node is an opaque handle to a host tree node. Handles must be comparable;
// the reconciler keys its side tables by them.
type Node interface{}

// Adapter performs primitive operations on a host tree.
//
// Structural operations follow DOM semantics: appending or inserting a node
// that is already attached moves it.
type Adapter interface {
	// CreateElement creates a detached element node.
	CreateElement(tag string) Node

	// CreateText creates a detached text node.
	CreateText(text string) Node

	// AppendChild attaches child as the last child of parent.
	AppendChild(parent, child Node) error

	// InsertBefore attaches child immediately before ref. A nil ref appends.
	InsertBefore(parent, child, ref Node) error

	// ReplaceChild puts newChild at oldChild's position and detaches oldChild.
	ReplaceChild(parent, newChild, oldChild Node) error

	// RemoveChild detaches child from parent.
	RemoveChild(parent, child Node) error

	// Parent returns the node's parent, or nil when detached.
	Parent(node Node) Node

	// Children returns the node's children in order.
	Children(node Node) []Node

	// IsText reports whether node is a text node.
	IsText(node Node) bool

	// Text returns a text node's content.
	Text(node Node) string

	// Tag returns an element node's tag name.
	Tag(node Node) string

	// Attributes returns the names of the generic attributes set on node.
	Attributes(node Node) []string

	// Attribute returns a generic attribute value.
	Attribute(node Node, name string) (string, bool)

	// SetAttribute sets a generic attribute.
	SetAttribute(node Node, name, value string)

	// RemoveAttribute removes a generic attribute.
	RemoveAttribute(node Node, name string)

	// SetField assigns a direct field (checked, value, className).
	SetField(node Node, field string, value any)

	// MergeStyle merges style fields into the node's style.
	MergeStyle(node Node, style map[string]string)

	// AddEventListener binds handler to event on node.
	AddEventListener(node Node, event string, handler any)

	// RemoveEventListener unbinds the handler for event on node.
	RemoveEventListener(node Node, event string)

	// Focused returns the currently focused node, or nil.
	Focused() Node

	// Focus moves focus to node.
	Focus(node Node)
}
