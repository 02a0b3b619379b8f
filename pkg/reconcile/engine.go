package reconcile

import (
	"log/slog"

	"github.com/vango-dev/recon/pkg/host"
	"github.com/vango-dev/recon/pkg/vdom"
)

// nodeState is the engine's side-table record for one host node.
type nodeState struct {
	key    string
	hasKey bool

	// owner is the outermost component instance whose root this node is.
	owner *Instance

	// events holds the event names bound through props.
	events map[string]struct{}

	// attrs holds the generic attributes applied from props.
	attrs map[string]string
}

// Engine renders and reconciles virtual trees against a host adapter.
type Engine struct {
	host     host.Adapter
	opts     Options
	logger   *slog.Logger
	observer Observer
	nodes    map[host.Node]*nodeState
}

// txn collects the instances mounted during one top-level call. Their
// DidMount hooks run once the call has attached its output.
type txn struct {
	mounted []*Instance
}

// New creates an engine that mutates the host tree through adapter.
func New(adapter host.Adapter, opts ...Option) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.EventPrefix == "" {
		o.EventPrefix = DefaultEventPrefix
	}
	if o.DirectFields == nil {
		o.DirectFields = map[string]string{}
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.Default().With("component", "reconcile")
	}
	observer := o.Observer
	if observer == nil {
		observer = nopObserver{}
	}
	return &Engine{
		host:     adapter,
		opts:     o,
		logger:   logger,
		observer: observer,
		nodes:    make(map[host.Node]*nodeState),
	}
}

// Adapter returns the host adapter.
func (e *Engine) Adapter() host.Adapter { return e.host }

// Options returns the engine configuration.
func (e *Engine) Options() Options { return e.opts }

// Owner returns the outermost component instance rendered at node, or nil.
func (e *Engine) Owner(node host.Node) *Instance {
	if st := e.nodes[node]; st != nil {
		return st.owner
	}
	return nil
}

// Key returns the reconciliation key recorded for node.
func (e *Engine) Key(node host.Node) (string, bool) {
	if st := e.nodes[node]; st != nil && st.hasKey {
		return st.key, true
	}
	return "", false
}

// Render builds the host subtree for node and appends it under parent.
// Nothing is attached when it fails.
func (e *Engine) Render(node *vdom.VNode, parent host.Node) (out host.Node, err error) {
	path := node.Name()
	end := e.observer.Begin(OpRender, path)
	defer func() { end(err) }()

	if parent == nil {
		return nil, detached(path)
	}
	if err := vdom.Validate(node); err != nil {
		return nil, err
	}

	t := &txn{}
	out, err = e.build(t, node, nil, path)
	if err == nil {
		if herr := e.host.AppendChild(parent, out); herr != nil {
			err = hostFailure(path, "append", herr)
		}
	}
	if err != nil {
		e.abandonAll(t)
		return nil, err
	}
	return out, e.finish(t, parent, nil)
}

// Patch brings node in line with next and returns the host node that now
// represents next at node's position. A nil parent defaults to node's
// current parent. Keyboard focus is captured on entry and restored on exit.
func (e *Engine) Patch(node host.Node, next *vdom.VNode, parent host.Node) (out host.Node, err error) {
	path := next.Name()
	end := e.observer.Begin(OpPatch, path)
	defer func() { end(err) }()

	if parent == nil {
		parent = e.host.Parent(node)
	}
	focused := e.host.Focused()

	t := &txn{}
	out, err = e.patch(t, node, next, parent, nil, e.Owner(node), path)
	err = e.finish(t, parent, err)
	e.restoreFocus(focused)
	if out == nil {
		out = node
	}
	return out, err
}

// finish settles the instances mounted during t. On success every one is
// marked mounted and its DidMount hook runs, children first. On failure
// only instances whose host root ended up attached are mounted; the rest
// are abandoned.
func (e *Engine) finish(t *txn, anchor host.Node, failure error) error {
	live := e.rootOf(anchor)
	ready := make([]*Instance, 0, len(t.mounted))
	for _, inst := range t.mounted {
		if inst.lifecycle != Mounting {
			continue
		}
		if failure != nil && (inst.base == nil || e.rootOf(inst.base) != live) {
			e.abandon(inst)
			continue
		}
		inst.transition(Mounted)
		ready = append(ready, inst)
	}

	for _, inst := range ready {
		if inst.lifecycle != Mounted {
			continue
		}
		if h, ok := inst.comp.(vdom.DidMountHook); ok {
			if err := h.DidMount(); err != nil {
				e.lifecycleFailed(inst, "DidMount", err)
				if failure == nil {
					failure = err
				}
			}
		}
	}
	return failure
}

func (e *Engine) abandonAll(t *txn) {
	for _, inst := range t.mounted {
		if inst.lifecycle == Mounting {
			e.abandon(inst)
		}
	}
}

// abandon drops an instance that was built but never attached.
func (e *Engine) abandon(inst *Instance) {
	inst.transition(Unmounted)
	if inst.base != nil {
		e.forgetTree(inst.base)
	}
	inst.base = nil
}

func (e *Engine) restoreFocus(focused host.Node) {
	if focused == nil || e.host.Focused() == focused {
		return
	}
	if e.host.Parent(focused) == nil {
		return
	}
	e.host.Focus(focused)
}

// rootOf returns the topmost ancestor of node.
func (e *Engine) rootOf(node host.Node) host.Node {
	if node == nil {
		return nil
	}
	for {
		p := e.host.Parent(node)
		if p == nil {
			return node
		}
		node = p
	}
}

// state returns the side-table record for node, creating it.
func (e *Engine) state(node host.Node) *nodeState {
	st := e.nodes[node]
	if st == nil {
		st = &nodeState{}
		e.nodes[node] = st
	}
	return st
}

func (e *Engine) setKey(node host.Node, key string) {
	st := e.state(node)
	st.key, st.hasKey = key, true
}

// forgetTree drops side-table records for node and its descendants.
func (e *Engine) forgetTree(node host.Node) {
	delete(e.nodes, node)
	for _, c := range e.host.Children(node) {
		e.forgetTree(c)
	}
}

func (e *Engine) lifecycleFailed(inst *Instance, hook string, err error) {
	e.logger.Debug("lifecycle callback failed",
		"code", "R002",
		"component", inst.typ.Name,
		"hook", hook,
		"error", err,
	)
}
