package vdom

import (
	"fmt"
	"strconv"

	"github.com/vango-dev/recon/internal/errors"
)

// ErrInvalidVirtualNode is matched (with errors.Is) by every error
// Validate returns.
var ErrInvalidVirtualNode error = errors.New("R001")

// Validate checks that node and its descendants are well-formed. It does
// not call component functions; their output is checked when rendered.
func Validate(node *VNode) error {
	return validate(node, node.Name())
}

func validate(node *VNode, path string) error {
	if node == nil {
		return nil
	}
	switch node.Kind {
	case KindEmpty, KindText:
		if len(node.Children) > 0 {
			return invalid(path, "primitive node has children")
		}
		return nil
	case KindElement:
		if node.Tag == "" {
			return invalid(path, "element has no tag")
		}
	case KindFunc:
		if node.Func == nil {
			return invalid(path, "function component is nil")
		}
	case KindClass:
		if node.Class == nil || node.Class.New == nil {
			return invalid(path, "component type has no constructor")
		}
	case KindInvalid:
		return invalid(path, fmt.Sprintf("unsupported value of type %T", node.Invalid))
	default:
		return invalid(path, "unknown kind "+strconv.Itoa(int(node.Kind)))
	}
	for i, child := range node.Children {
		if err := validate(child, ChildPath(path, child, i)); err != nil {
			return err
		}
	}
	return nil
}

// ChildPath extends a tree path with the child at index i.
func ChildPath(parent string, child *VNode, i int) string {
	return parent + "/" + child.Name() + "[" + strconv.Itoa(i) + "]"
}

func invalid(path, detail string) error {
	return errors.New("R001").
		WithPath(path).
		WithDetail(detail).
		WithSuggestion("Build nodes with vdom.H, vdom.Element, vdom.Func, or vdom.Class")
}
