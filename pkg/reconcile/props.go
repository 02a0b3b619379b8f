package reconcile

import (
	"strings"

	"github.com/vango-dev/recon/pkg/host"
	"github.com/vango-dev/recon/pkg/vdom"
)

// applyProp applies one prop to a host element, dispatching on the prop
// name and the value's shape.
func (e *Engine) applyProp(node host.Node, name string, value any) {
	if event, ok := e.eventName(name); ok && vdom.IsCallable(value) {
		st := e.state(node)
		if _, bound := st.events[event]; bound {
			e.host.RemoveEventListener(node, event)
		}
		e.host.AddEventListener(node, event, value)
		if st.events == nil {
			st.events = make(map[string]struct{})
		}
		st.events[event] = struct{}{}
		return
	}

	if field, ok := e.opts.DirectFields[name]; ok {
		e.host.SetField(node, field, value)
		return
	}

	switch name {
	case vdom.PropStyle:
		if style, ok := styleMap(value); ok {
			e.host.MergeStyle(node, style)
			return
		}
	case vdom.PropRef:
		switch ref := value.(type) {
		case *vdom.Ref:
			if ref != nil {
				ref.Current = node
			}
		case func(host.Node):
			ref(node)
		}
		return
	case vdom.PropKey:
		if key, ok := vdom.KeyString(value); ok {
			e.setKey(node, key)
		}
		return
	}

	if !vdom.IsObject(value) && !vdom.IsCallable(value) {
		s := vdom.PropString(value)
		e.host.SetAttribute(node, name, s)
		e.state(node).setAttr(name, s)
	}
}

// refreshProps reapplies every prop after an element's children have been
// reconciled.
func (e *Engine) refreshProps(node host.Node, props vdom.Props) {
	st := e.state(node)

	if e.opts.AttrRefresh == AttrRefreshDiff {
		prev := st.attrs
		st.attrs = nil
		next := make(map[string]string)
		for name, value := range props {
			if e.isGenericAttr(name, value) {
				next[name] = vdom.PropString(value)
			}
		}
		for name := range prev {
			if _, ok := next[name]; !ok {
				e.host.RemoveAttribute(node, name)
			}
		}
		e.unbindMissing(node, st, props)
		for _, name := range sortedProps(props) {
			if v, ok := next[name]; ok {
				if old, had := prev[name]; had && old == v {
					st.setAttr(name, v)
					continue
				}
			}
			e.applyProp(node, name, props[name])
		}
		return
	}

	for _, name := range e.host.Attributes(node) {
		e.host.RemoveAttribute(node, name)
	}
	st.attrs = nil
	for event := range st.events {
		e.host.RemoveEventListener(node, event)
	}
	st.events = nil
	for _, name := range sortedProps(props) {
		e.applyProp(node, name, props[name])
	}
}

// unbindMissing removes listeners whose handler prop is gone.
func (e *Engine) unbindMissing(node host.Node, st *nodeState, props vdom.Props) {
	want := make(map[string]struct{})
	for name, value := range props {
		if event, ok := e.eventName(name); ok && vdom.IsCallable(value) {
			want[event] = struct{}{}
		}
	}
	for event := range st.events {
		if _, ok := want[event]; !ok {
			e.host.RemoveEventListener(node, event)
			delete(st.events, event)
		}
	}
}

// isGenericAttr reports whether applyProp would serialize the prop as a
// generic attribute.
func (e *Engine) isGenericAttr(name string, value any) bool {
	if _, ok := e.eventName(name); ok && vdom.IsCallable(value) {
		return false
	}
	if _, ok := e.opts.DirectFields[name]; ok {
		return false
	}
	switch name {
	case vdom.PropRef, vdom.PropKey:
		return false
	case vdom.PropStyle:
		if _, ok := styleMap(value); ok {
			return false
		}
	}
	return !vdom.IsObject(value) && !vdom.IsCallable(value)
}

// eventName strips the event prefix (case-insensitively) and lower-cases
// the remainder.
func (e *Engine) eventName(prop string) (string, bool) {
	prefix := e.opts.EventPrefix
	if len(prop) <= len(prefix) || !strings.EqualFold(prop[:len(prefix)], prefix) {
		return "", false
	}
	return strings.ToLower(prop[len(prefix):]), true
}

func (st *nodeState) setAttr(name, value string) {
	if st.attrs == nil {
		st.attrs = make(map[string]string)
	}
	st.attrs[name] = value
}

func styleMap(v any) (map[string]string, bool) {
	switch s := v.(type) {
	case vdom.Style:
		return s, true
	case map[string]string:
		return s, true
	case map[string]any:
		out := make(map[string]string, len(s))
		for k, val := range s {
			out[k] = vdom.PropString(val)
		}
		return out, true
	}
	return nil, false
}
