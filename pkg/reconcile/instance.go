package reconcile

import (
	"reflect"

	"github.com/vango-dev/recon/pkg/host"
	"github.com/vango-dev/recon/pkg/vdom"
)

// Lifecycle is a component instance's lifecycle state.
type Lifecycle uint8

const (
	Uninitialized Lifecycle = iota
	Mounting
	Mounted
	Updating
	Unmounted
)

// String returns the state name.
func (l Lifecycle) String() string {
	switch l {
	case Uninitialized:
		return "Uninitialized"
	case Mounting:
		return "Mounting"
	case Mounted:
		return "Mounted"
	case Updating:
		return "Updating"
	case Unmounted:
		return "Unmounted"
	default:
		return "Unknown"
	}
}

// allowed lists the legal lifecycle transitions.
var allowed = map[Lifecycle][]Lifecycle{
	Uninitialized: {Mounting, Unmounted},
	Mounting:      {Mounted, Unmounted},
	Mounted:       {Updating, Unmounted},
	Updating:      {Mounted, Unmounted},
}

// Instance backs a class component for its mounted lifetime.
type Instance struct {
	engine    *Engine
	typ       *vdom.ComponentType
	comp      vdom.Component
	props     vdom.Props
	state     any
	base      host.Node
	lifecycle Lifecycle
	path      string

	// outer is the instance whose render output this instance is;
	// inner is the instance this one renders directly. Both share base.
	outer *Instance
	inner *Instance
}

var _ vdom.Instance = (*Instance)(nil)

func newInstance(e *Engine, typ *vdom.ComponentType, props vdom.Props, path string) *Instance {
	return &Instance{engine: e, typ: typ, props: props, path: path}
}

// Props implements vdom.Instance.
func (i *Instance) Props() vdom.Props { return i.props }

// State implements vdom.Instance.
func (i *Instance) State() any { return i.state }

// Type implements vdom.Instance.
func (i *Instance) Type() *vdom.ComponentType { return i.typ }

// Component returns the component body.
func (i *Instance) Component() vdom.Component { return i.comp }

// Base returns the host root the instance rendered, or nil before the
// first render and after unmount.
func (i *Instance) Base() host.Node { return i.base }

// Lifecycle returns the current lifecycle state.
func (i *Instance) Lifecycle() Lifecycle { return i.lifecycle }

// Inner returns the instance this one renders directly, if any.
func (i *Instance) Inner() *Instance { return i.inner }

// transition moves to the next state if the move is legal.
func (i *Instance) transition(to Lifecycle) bool {
	for _, s := range allowed[i.lifecycle] {
		if s == to {
			i.lifecycle = to
			return true
		}
	}
	return false
}

// SetState merges next into the state and synchronously patches the
// instance's host subtree with a fresh render. It is a no-op before the
// first render, after unmount, and when ShouldUpdate returns false. Calls
// made from DidMount or DidUpdate hooks, including during another
// SetState, run their own complete update.
func (i *Instance) SetState(next any) (err error) {
	if i.base == nil || i.lifecycle == Unmounted {
		return nil
	}
	if h, ok := i.comp.(vdom.ShouldUpdateHook); ok && !h.ShouldUpdate() {
		return nil
	}

	e := i.engine
	end := e.observer.Begin(OpSetState, i.typ.Name)
	defer func() { end(err) }()

	settled := i.lifecycle
	i.lifecycle = Updating
	settle := func() {
		if i.lifecycle == Updating {
			i.lifecycle = settled
		}
	}
	defer settle()

	if h, ok := i.comp.(vdom.WillUpdateHook); ok {
		if err := h.WillUpdate(next); err != nil {
			e.lifecycleFailed(i, "WillUpdate", err)
			return err
		}
	}
	prev := i.state
	i.state = MergeState(i.state, next)

	parent := e.host.Parent(i.base)
	focused := e.host.Focused()
	t := &txn{}
	_, err = i.rerender(t, parent)
	settle()
	err = e.finish(t, parent, err)
	e.restoreFocus(focused)
	if err != nil {
		return err
	}

	if h, ok := i.comp.(vdom.DidUpdateHook); ok {
		if err := h.DidUpdate(prev); err != nil {
			e.lifecycleFailed(i, "DidUpdate", err)
			return err
		}
	}
	return nil
}

// rerender patches base against a fresh render and follows a replaced root.
func (i *Instance) rerender(t *txn, parent host.Node) (host.Node, error) {
	e := i.engine
	old := i.base
	out, err := e.patch(t, old, i.comp.Render(), parent, i, i.inner, i.path)
	if out != nil && out != old && i.lifecycle != Unmounted {
		e.rebase(i, old, out)
	}
	return out, err
}

// MergeState shallow-merges next into cur when both are string-keyed maps
// of the same type (a nil current state counts as an empty map) and
// returns next otherwise. The result is a fresh map of next's type.
func MergeState(cur, next any) any {
	if nm, ok := next.(map[string]any); ok {
		cm, ok := cur.(map[string]any)
		if !ok && cur != nil {
			return next
		}
		out := make(map[string]any, len(cm)+len(nm))
		for k, v := range cm {
			out[k] = v
		}
		for k, v := range nm {
			out[k] = v
		}
		return out
	}

	nv := reflect.ValueOf(next)
	if nv.Kind() != reflect.Map || nv.Type().Key().Kind() != reflect.String {
		return next
	}
	cv := reflect.ValueOf(cur)
	if cur != nil && cv.Type() != nv.Type() {
		return next
	}
	out := reflect.MakeMapWithSize(nv.Type(), nv.Len()+lenOf(cv))
	if cur != nil {
		for it := cv.MapRange(); it.Next(); {
			out.SetMapIndex(it.Key(), it.Value())
		}
	}
	for it := nv.MapRange(); it.Next(); {
		out.SetMapIndex(it.Key(), it.Value())
	}
	return out.Interface()
}

func lenOf(v reflect.Value) int {
	if !v.IsValid() {
		return 0
	}
	return v.Len()
}

// rebase points inst and every instance rendering it at a new host root.
func (e *Engine) rebase(inst *Instance, old, out host.Node) {
	top := inst
	for p := inst; p != nil; p = p.outer {
		p.base = out
		top = p
	}
	if st := e.nodes[old]; st != nil && st.owner == top {
		st.owner = nil
	}
	e.state(out).owner = top
}

// unmount runs WillUnmount on inst and the instances it renders, outermost
// first, and marks them unmounted.
func (e *Engine) unmount(inst *Instance) error {
	for i := inst; i != nil; i = i.inner {
		if i.lifecycle == Unmounted {
			continue
		}
		wasMounted := i.lifecycle != Mounting
		if h, ok := i.comp.(vdom.WillUnmountHook); ok && wasMounted {
			if err := h.WillUnmount(); err != nil {
				e.lifecycleFailed(i, "WillUnmount", err)
				return err
			}
		}
		i.transition(Unmounted)
		i.base = nil
		e.logger.Debug("component unmounted", "component", i.typ.Name, "path", i.path)
	}
	return nil
}

// teardown unmounts cand's chain and every instance rendered inside node,
// parents before children, and forgets the subtree's side-table records.
func (e *Engine) teardown(node host.Node, cand *Instance) error {
	if err := e.unmount(cand); err != nil {
		return err
	}
	for _, c := range e.host.Children(node) {
		if err := e.teardown(c, e.Owner(c)); err != nil {
			return err
		}
	}
	delete(e.nodes, node)
	return nil
}

// release unmounts the component chain rendered at node while the node
// itself stays in place for a plain virtual node.
func (e *Engine) release(node host.Node, owner, cand *Instance) error {
	if err := e.unmount(cand); err != nil {
		return err
	}
	if owner != nil && owner.inner == cand {
		owner.inner = nil
	}
	if st := e.nodes[node]; st != nil && st.owner == cand {
		st.owner = nil
	}
	return nil
}
