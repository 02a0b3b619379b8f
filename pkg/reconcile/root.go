package reconcile

import (
	"sync"

	"github.com/vango-dev/recon/pkg/host"
	"github.com/vango-dev/recon/pkg/vdom"
)

// Root owns one mounted tree. Its methods serialize access to the tree;
// callers that touch instances directly (SetState from an event handler,
// for example) do so inside Run.
type Root struct {
	mu        sync.Mutex
	e         *Engine
	container host.Node
	node      host.Node
}

// Mount renders v into container and returns the root that owns it.
func (e *Engine) Mount(v *vdom.VNode, container host.Node) (*Root, error) {
	node, err := e.Render(v, container)
	if err != nil {
		return nil, err
	}
	return &Root{e: e, container: container, node: node}, nil
}

// Engine returns the engine the root was mounted with.
func (r *Root) Engine() *Engine { return r.e }

// Container returns the host node the tree is mounted under.
func (r *Root) Container() host.Node { return r.container }

// Node returns the tree's current host root, or nil once unmounted.
func (r *Root) Node() host.Node {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.node
}

// Instance returns the component instance rendered at the root, if any.
func (r *Root) Instance() *Instance {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.node == nil {
		return nil
	}
	return r.e.Owner(r.node)
}

// Update patches the mounted tree against v.
func (r *Root) Update(v *vdom.VNode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.node == nil {
		return detached(v.Name())
	}
	out, err := r.e.Patch(r.node, v, r.container)
	if out != nil {
		r.node = out
	}
	return err
}

// Run calls fn while holding the root. A component root replaced by fn
// (through SetState) is picked up afterwards. fn must not call other
// methods of r.
func (r *Root) Run(fn func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var inst *Instance
	if r.node != nil {
		inst = r.e.Owner(r.node)
	}
	err := fn()
	if inst != nil && inst.base != nil {
		r.node = inst.base
	}
	return err
}

// Unmount tears the tree down, running WillUnmount hooks parent first,
// and removes it from the container.
func (r *Root) Unmount() (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.node == nil {
		return nil
	}
	end := r.e.observer.Begin(OpUnmount, "root")
	defer func() { end(err) }()

	if err := r.e.teardown(r.node, r.e.Owner(r.node)); err != nil {
		return err
	}
	if err := r.e.host.RemoveChild(r.container, r.node); err != nil {
		return hostFailure("root", "remove", err)
	}
	r.node = nil
	return nil
}
