package reconcile

import (
	"fmt"
	"sort"

	"github.com/vango-dev/recon/pkg/host"
	"github.com/vango-dev/recon/pkg/vdom"
)

// build creates a detached host subtree for node. owner is the instance
// whose render output node is, or nil at ordinary child positions.
func (e *Engine) build(t *txn, node *vdom.VNode, owner *Instance, path string) (host.Node, error) {
	switch vdom.KindOf(node) {
	case vdom.KindEmpty:
		return e.host.CreateText(""), nil

	case vdom.KindText:
		if len(node.Children) > 0 {
			return nil, invalidNode(path, "primitive node has children")
		}
		return e.host.CreateText(node.Text), nil

	case vdom.KindElement:
		return e.buildElement(t, node, path)

	case vdom.KindFunc:
		if node.Func == nil {
			return nil, invalidNode(path, "function component is nil")
		}
		out, err := e.build(t, node.Func(componentProps(node)), owner, path)
		if err != nil {
			return nil, err
		}
		if node.HasKey() {
			e.setKey(out, node.Key)
		}
		return out, nil

	case vdom.KindClass:
		return e.mount(t, node, owner, path)

	case vdom.KindInvalid:
		return nil, invalidNode(path, fmt.Sprintf("unsupported value of type %T", node.Invalid))

	default:
		return nil, invalidNode(path, fmt.Sprintf("unknown kind %d", node.Kind))
	}
}

func (e *Engine) buildElement(t *txn, node *vdom.VNode, path string) (host.Node, error) {
	tag := vdom.NormalizeTag(node.Tag)
	if tag == "" {
		return nil, invalidNode(path, "element has no tag")
	}
	el := e.host.CreateElement(tag)
	for i, child := range node.Children {
		cpath := vdom.ChildPath(path, child, i)
		c, err := e.build(t, child, nil, cpath)
		if err != nil {
			return nil, err
		}
		if err := e.host.AppendChild(el, c); err != nil {
			return nil, hostFailure(cpath, "append", err)
		}
	}
	for _, name := range sortedProps(node.Props) {
		e.applyProp(el, name, node.Props[name])
	}
	return el, nil
}

// mount instantiates a class component and builds its output.
func (e *Engine) mount(t *txn, node *vdom.VNode, owner *Instance, path string) (host.Node, error) {
	if node.Class == nil || node.Class.New == nil {
		return nil, invalidNode(path, "component type has no constructor")
	}

	inst := newInstance(e, node.Class, componentProps(node), path)
	inst.comp = node.Class.New(inst)
	if inst.comp == nil {
		inst.transition(Unmounted)
		return nil, invalidNode(path, "component constructor returned nil")
	}
	if init, ok := inst.comp.(vdom.StateInitializer); ok {
		inst.state = init.InitialState()
	}
	inst.transition(Mounting)

	if h, ok := inst.comp.(vdom.WillMountHook); ok {
		if err := h.WillMount(); err != nil {
			e.lifecycleFailed(inst, "WillMount", err)
			inst.transition(Unmounted)
			return nil, err
		}
	}

	base, err := e.build(t, inst.comp.Render(), inst, path)
	if err != nil {
		inst.transition(Unmounted)
		return nil, err
	}

	if owner != nil {
		owner.inner = inst
		inst.outer = owner
	}
	inst.base = base
	st := e.state(base)
	st.owner = inst
	if node.HasKey() {
		st.key, st.hasKey = node.Key, true
	}
	t.mounted = append(t.mounted, inst)

	e.logger.Debug("component instantiated", "component", inst.typ.Name, "path", path)
	return base, nil
}

// componentProps copies an element's props for a component, exposing its
// children under the "children" prop.
func componentProps(node *vdom.VNode) vdom.Props {
	props := node.Props.Clone()
	if len(node.Children) > 0 {
		props[vdom.PropChildren] = node.Children
	}
	return props
}

func sortedProps(props vdom.Props) []string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
