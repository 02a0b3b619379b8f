package vdom

// H creates a virtual node from a kind, props, and children. kind selects
// the variant: a tag string builds an element, a FuncComponent (or a plain
// func(Props) *VNode) builds a function component, and a *ComponentType
// builds a class component. Any other kind yields an invalid node, which
// the renderer rejects.
func H(kind any, props Props, children ...any) *VNode {
	switch k := kind.(type) {
	case string:
		return Element(k, props, children...)
	case FuncComponent:
		return Func(k, props, children...)
	case func(Props) *VNode:
		return Func(k, props, children...)
	case *ComponentType:
		return Class(k, props, children...)
	default:
		return &VNode{Kind: KindInvalid, Invalid: kind}
	}
}

// Element creates a host element node.
func Element(tag string, props Props, children ...any) *VNode {
	return build(&VNode{Kind: KindElement, Tag: NormalizeTag(tag)}, props, children)
}

// Func creates a function component node.
func Func(fn FuncComponent, props Props, children ...any) *VNode {
	return build(&VNode{Kind: KindFunc, Func: fn}, props, children)
}

// Class creates a class component node.
func Class(typ *ComponentType, props Props, children ...any) *VNode {
	return build(&VNode{Kind: KindClass, Class: typ}, props, children)
}

// Text creates a primitive text node.
func Text(content string) *VNode {
	return &VNode{Kind: KindText, Text: content}
}

// Number creates a primitive text node from a numeric value.
func Number(n any) *VNode {
	s, ok := numberString(n)
	if !ok {
		return &VNode{Kind: KindInvalid, Invalid: n}
	}
	return Text(s)
}

// Empty creates an empty node.
func Empty() *VNode {
	return &VNode{Kind: KindEmpty}
}

// Value converts an arbitrary child value into a virtual node.
func Value(v any) *VNode {
	switch val := v.(type) {
	case nil:
		return Empty()
	case *VNode:
		if val == nil {
			return Empty()
		}
		return val
	case bool:
		return Empty()
	case string:
		return Text(val)
	}
	if s, ok := numberString(v); ok {
		return Text(s)
	}
	return &VNode{Kind: KindInvalid, Invalid: v}
}

func build(node *VNode, props Props, children []any) *VNode {
	node.Props = props.Clone()
	if k, ok := KeyString(node.Props[PropKey]); ok {
		node.Key = k
	}
	node.Children = flatten(children)
	return node
}

// flatten converts children to nodes, expanding one level of slices.
// Every entry keeps its position so positional keys stay stable.
func flatten(children []any) []*VNode {
	out := make([]*VNode, 0, len(children))
	for _, child := range children {
		switch v := child.(type) {
		case []*VNode:
			for _, c := range v {
				out = append(out, Value(c))
			}
		case []any:
			for _, c := range v {
				out = append(out, Value(c))
			}
		default:
			out = append(out, Value(v))
		}
	}
	return out
}
