package vdom

import "strings"

// VKind is the node type discriminator.
type VKind uint8

const (
	KindEmpty   VKind = iota // nil, true, false
	KindText                 // strings and numbers
	KindElement              // <div>, <button>, etc.
	KindFunc                 // stateless function component
	KindClass                // stateful component type
	KindInvalid              // value that is not a virtual node
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindEmpty:
		return "Empty"
	case KindText:
		return "Text"
	case KindElement:
		return "Element"
	case KindFunc:
		return "Func"
	case KindClass:
		return "Class"
	case KindInvalid:
		return "Invalid"
	default:
		return "Unknown"
	}
}

// VNode is the virtual tree node. A nil *VNode is treated as Empty.
type VNode struct {
	Kind     VKind          // Node type
	Tag      string         // Element tag name, lower case
	Text     string         // Content for KindText
	Props    Props          // Attributes, handlers, component props
	Children []*VNode       // Child nodes
	Key      string         // Reconciliation key, "" when absent
	Func     FuncComponent  // For KindFunc
	Class    *ComponentType // For KindClass

	// Invalid holds the offending value for KindInvalid nodes.
	Invalid any
}

// KindOf returns the node kind, treating nil as Empty.
func KindOf(v *VNode) VKind {
	if v == nil {
		return KindEmpty
	}
	return v.Kind
}

// IsPrimitive reports whether the node renders to a text node.
func (v *VNode) IsPrimitive() bool {
	k := KindOf(v)
	return k == KindText || k == KindEmpty
}

// IsComponent reports whether the node is a function or class component.
func (v *VNode) IsComponent() bool {
	k := KindOf(v)
	return k == KindFunc || k == KindClass
}

// Content returns the text a primitive node renders to.
func (v *VNode) Content() string {
	if v == nil || v.Kind != KindText {
		return ""
	}
	return v.Text
}

// HasKey reports whether the node carries an explicit reconciliation key.
func (v *VNode) HasKey() bool {
	return v != nil && v.Key != ""
}

// Name returns a short label for the node, used in tree paths.
func (v *VNode) Name() string {
	switch KindOf(v) {
	case KindEmpty:
		return "#empty"
	case KindText:
		return "#text"
	case KindElement:
		return v.Tag
	case KindFunc:
		return "func"
	case KindClass:
		if v.Class != nil && v.Class.Name != "" {
			return v.Class.Name
		}
		return "component"
	default:
		return "#invalid"
	}
}

// NormalizeTag lower-cases a tag name. Virtual and host tags are both
// compared through it.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
