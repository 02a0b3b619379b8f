package reconcile

import (
	"fmt"
	"strconv"

	"github.com/vango-dev/recon/pkg/host"
	"github.com/vango-dev/recon/pkg/vdom"
)

// patch reconciles node against next. owner is the instance whose render
// output sits at this position (nil at ordinary child positions); cand is
// the instance currently rendered here, if any.
func (e *Engine) patch(t *txn, node host.Node, next *vdom.VNode, parent host.Node, owner, cand *Instance, path string) (host.Node, error) {
	switch vdom.KindOf(next) {
	case vdom.KindClass:
		return e.patchClass(t, node, next, parent, owner, cand, path)

	case vdom.KindFunc:
		if next.Func == nil {
			return node, invalidNode(path, "function component is nil")
		}
		out, err := e.patch(t, node, next.Func(componentProps(next)), parent, owner, cand, path)
		if err == nil && next.HasKey() {
			e.setKey(out, next.Key)
		}
		return out, err

	case vdom.KindEmpty, vdom.KindText:
		if next != nil && len(next.Children) > 0 {
			return node, invalidNode(path, "primitive node has children")
		}

	case vdom.KindElement:
		if next.Tag == "" {
			return node, invalidNode(path, "element has no tag")
		}

	case vdom.KindInvalid:
		return node, invalidNode(path, fmt.Sprintf("unsupported value of type %T", next.Invalid))

	default:
		return node, invalidNode(path, fmt.Sprintf("unknown kind %d", next.Kind))
	}

	// A plain node now occupies a position a component used to render.
	if cand != nil {
		if err := e.release(node, owner, cand); err != nil {
			return node, err
		}
	}

	if next.IsPrimitive() {
		if e.host.IsText(node) && e.host.Text(node) == next.Content() {
			return node, nil
		}
		return e.replace(t, node, next, parent, owner, nil, path)
	}

	if e.host.IsText(node) {
		return e.replace(t, node, next, parent, owner, nil, path)
	}
	if vdom.NormalizeTag(e.host.Tag(node)) != vdom.NormalizeTag(next.Tag) {
		return e.replace(t, node, next, parent, owner, nil, path)
	}
	return e.patchElement(t, node, next, path)
}

// patchClass updates the instance at this position when its type matches
// next, and replaces it otherwise.
func (e *Engine) patchClass(t *txn, node host.Node, next *vdom.VNode, parent host.Node, owner, cand *Instance, path string) (host.Node, error) {
	if next.Class == nil || next.Class.New == nil {
		return node, invalidNode(path, "component type has no constructor")
	}
	if cand == nil || cand.typ != next.Class || cand.lifecycle == Unmounted {
		return e.replace(t, node, next, parent, owner, cand, path)
	}

	props := componentProps(next)
	if h, ok := cand.comp.(vdom.WillReceivePropsHook); ok {
		if err := h.WillReceiveProps(props); err != nil {
			e.lifecycleFailed(cand, "WillReceiveProps", err)
			return node, err
		}
	}
	cand.props = props
	cand.path = path

	cand.transition(Updating)
	out, err := cand.rerender(t, parent)
	cand.transition(Mounted)
	if err != nil {
		return out, err
	}
	if next.HasKey() {
		e.setKey(out, next.Key)
	}
	return out, nil
}

// replace renders next fresh and splices it in place of node. cand is the
// instance chain rendered at node that goes away with it.
func (e *Engine) replace(t *txn, node host.Node, next *vdom.VNode, parent host.Node, owner, cand *Instance, path string) (host.Node, error) {
	if parent == nil {
		return node, detached(path)
	}
	fresh, err := e.build(t, next, owner, path)
	if err != nil {
		return node, err
	}

	if st := e.nodes[node]; st != nil && st.hasKey {
		if _, ok := e.Key(fresh); !ok {
			e.setKey(fresh, st.key)
		}
	}
	if err := e.teardown(node, cand); err != nil {
		return node, err
	}
	if err := e.host.ReplaceChild(parent, fresh, node); err != nil {
		return node, hostFailure(path, "replace", err)
	}

	e.logger.Debug("node replaced", "path", path, "kind", vdom.KindOf(next).String())
	return fresh, nil
}

// patchElement reconciles children by key, then refreshes props.
func (e *Engine) patchElement(t *txn, node host.Node, next *vdom.VNode, path string) (host.Node, error) {
	children := e.host.Children(node)

	if e.opts.KeyCollision == KeyCollisionError {
		seen := make(map[string]struct{}, len(next.Children))
		for i, child := range next.Children {
			k := vnodeKey(child, i)
			if _, dup := seen[k]; dup {
				return node, keyCollision(vdom.ChildPath(path, child, i), k)
			}
			seen[k] = struct{}{}
		}
	}

	lookup := make(map[string]host.Node, len(children))
	for i, child := range children {
		k := e.hostKey(child, i)
		if _, dup := lookup[k]; dup {
			e.logger.Warn("duplicate key among host children", "path", path, "key", k)
		}
		lookup[k] = child
	}

	desired := make([]host.Node, 0, len(next.Children))
	consumed := make(map[string]struct{}, len(next.Children))
	for i, child := range next.Children {
		cpath := vdom.ChildPath(path, child, i)
		k := vnodeKey(child, i)

		existing, ok := lookup[k]
		if ok {
			delete(lookup, k)
			consumed[k] = struct{}{}
			out, err := e.patch(t, existing, child, node, nil, e.Owner(existing), cpath)
			if err != nil {
				return node, err
			}
			desired = append(desired, out)
			continue
		}

		if _, used := consumed[k]; used {
			e.logger.Warn("duplicate key among new children", "path", cpath, "key", k)
		}
		fresh, err := e.build(t, child, nil, cpath)
		if err != nil {
			return node, err
		}
		desired = append(desired, fresh)
	}

	keep := make(map[host.Node]struct{}, len(desired))
	for _, n := range desired {
		keep[n] = struct{}{}
	}
	for _, child := range children {
		if _, ok := keep[child]; ok || e.host.Parent(child) != node {
			continue
		}
		if err := e.removeChild(node, child, path); err != nil {
			return node, err
		}
	}

	if err := e.order(node, desired, path); err != nil {
		return node, err
	}

	e.refreshProps(node, next.Props)
	return node, nil
}

// order moves and inserts children so node's child list equals desired.
func (e *Engine) order(node host.Node, desired []host.Node, path string) error {
	current := e.host.Children(node)
	for i, want := range desired {
		if i < len(current) && current[i] == want {
			continue
		}
		var ref host.Node
		if i < len(current) {
			ref = current[i]
		}
		if err := e.host.InsertBefore(node, want, ref); err != nil {
			return hostFailure(path, "insert", err)
		}
		current = moveTo(current, want, i)
	}
	return nil
}

// moveTo returns list with n placed at index i, removing any earlier copy.
func moveTo(list []host.Node, n host.Node, i int) []host.Node {
	for j, c := range list {
		if c == n {
			list = append(list[:j:j], list[j+1:]...)
			break
		}
	}
	if i > len(list) {
		i = len(list)
	}
	list = append(list, nil)
	copy(list[i+1:], list[i:])
	list[i] = n
	return list
}

// removeChild unmounts every instance under child, then detaches it.
func (e *Engine) removeChild(parent, child host.Node, path string) error {
	if err := e.teardown(child, e.Owner(child)); err != nil {
		return err
	}
	if err := e.host.RemoveChild(parent, child); err != nil {
		return hostFailure(path, "remove", err)
	}
	e.logger.Debug("stale child removed", "path", path)
	return nil
}

// hostKey is a host child's key: its recorded key, else its position.
func (e *Engine) hostKey(node host.Node, i int) string {
	if k, ok := e.Key(node); ok {
		return k
	}
	return indexKey(i)
}

// vnodeKey is a virtual child's key: its key prop, else its position.
func vnodeKey(node *vdom.VNode, i int) string {
	if node.HasKey() {
		return node.Key
	}
	return indexKey(i)
}

func indexKey(i int) string {
	return "index_" + strconv.Itoa(i)
}
